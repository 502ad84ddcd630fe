package firestore

import (
	"time"

	"wallpapers/internal/catalog"
)

// Document is a wallpaper as stored in the collection. The image bytes live
// in the bucket under Object.
type Document struct {
	ID        string    `firestore:"id"`
	Object    string    `firestore:"object"`
	URL       string    `firestore:"url"`
	Alt       string    `firestore:"alt"`
	Author    string    `firestore:"author"`
	Category  string    `firestore:"category"`
	Width     int       `firestore:"width"`
	Height    int       `firestore:"height"`
	CreatedAt time.Time `firestore:"createdAt"`
}

func (d Document) Wallpaper() catalog.Wallpaper {
	return catalog.Wallpaper{
		ID:       d.ID,
		URL:      d.URL,
		Title:    d.Alt,
		Author:   d.Author,
		Category: catalog.Category(d.Category),
		Width:    d.Width,
		Height:   d.Height,
	}
}

// ToWallpapers keeps only documents with a storable category.
func ToWallpapers(docs []Document) []catalog.Wallpaper {
	res := make([]catalog.Wallpaper, 0, len(docs))
	for _, d := range docs {
		w := d.Wallpaper()
		if !w.Category.Valid() {
			continue
		}
		res = append(res, w)
	}
	return res
}
