// Package events carries upload notifications over Cloud Pub/Sub.
package events

import (
	"encoding/json"

	"wallpapers/internal/catalog"

	"github.com/go-faster/errors"
)

// Uploaded is published once per successfully created wallpaper.
type Uploaded struct {
	ID       string           `json:"id"`
	URL      string           `json:"url"`
	Category catalog.Category `json:"category"`
}

func UploadedFrom(w catalog.Wallpaper) Uploaded {
	return Uploaded{ID: w.ID, URL: w.URL, Category: w.Category}
}

func (u Uploaded) Marshal() ([]byte, error) {
	return json.Marshal(u)
}

func Unmarshal(b []byte) (Uploaded, error) {
	var u Uploaded
	if err := json.Unmarshal(b, &u); err != nil {
		return Uploaded{}, errors.Wrap(err, "decode upload event")
	}
	if u.ID == "" || u.URL == "" {
		return Uploaded{}, errors.New("upload event without id or url")
	}
	return u, nil
}
