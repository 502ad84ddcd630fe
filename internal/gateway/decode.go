package gateway

import (
	"fmt"

	"wallpapers/internal/catalog"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

const (
	fieldID = 1 << iota
	fieldURL
	fieldAlt
	fieldAuthor
	fieldCategory
	fieldWidth
	fieldHeight

	allFields = fieldID | fieldURL | fieldAlt | fieldAuthor | fieldCategory | fieldWidth | fieldHeight
)

// decodeSnapshot decodes a JSON array of wallpapers. A single malformed
// element fails the whole list.
func decodeSnapshot(b []byte) (catalog.Snapshot, error) {
	d := jx.DecodeBytes(b)

	s := catalog.Snapshot{}
	if err := d.Arr(func(d *jx.Decoder) error {
		w, err := decodeWallpaper(d)
		if err != nil {
			return errors.Wrapf(err, "wallpaper %d", len(s))
		}
		s = append(s, w)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode wallpapers")
	}

	if err := expectEnd(d); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeWallpaperBytes(b []byte) (catalog.Wallpaper, error) {
	d := jx.DecodeBytes(b)

	w, err := decodeWallpaper(d)
	if err != nil {
		return catalog.Wallpaper{}, errors.Wrap(err, "decode wallpaper")
	}
	if err := expectEnd(d); err != nil {
		return catalog.Wallpaper{}, err
	}
	return w, nil
}

// decodeWallpaper requires exactly the wire fields of a wallpaper.
func decodeWallpaper(d *jx.Decoder) (catalog.Wallpaper, error) {
	var (
		w    catalog.Wallpaper
		seen int
	)

	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch k := string(key); k {
		case "id":
			w.ID, err = d.Str()
			seen |= fieldID
		case "url":
			w.URL, err = d.Str()
			seen |= fieldURL
		case "alt":
			w.Title, err = d.Str()
			seen |= fieldAlt
		case "author":
			w.Author, err = d.Str()
			seen |= fieldAuthor
		case "category":
			var c string
			c, err = d.Str()
			w.Category = catalog.Category(c)
			seen |= fieldCategory
		case "width":
			w.Width, err = positive(d)
			seen |= fieldWidth
		case "height":
			w.Height, err = positive(d)
			seen |= fieldHeight
		default:
			return errors.Errorf("unexpected field %q", k)
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	if err != nil {
		return catalog.Wallpaper{}, err
	}

	if seen != allFields {
		return catalog.Wallpaper{}, errors.Errorf("missing fields in wallpaper %q", w.ID)
	}
	if w.ID == "" {
		return catalog.Wallpaper{}, errors.New("empty id")
	}
	return w, nil
}

func positive(d *jx.Decoder) (int, error) {
	v, err := d.Int()
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, errors.Errorf("%d is not positive", v)
	}
	return v, nil
}

func expectEnd(d *jx.Decoder) error {
	if d.Next() != jx.Invalid {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// decodeUploadError reads the server's {error, details} body. The error
// text is used verbatim; an unreadable body falls back to the status.
func decodeUploadError(status int, b []byte) *UploadError {
	ue := &UploadError{Status: status}

	err := jx.DecodeBytes(b).ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "error":
			v, err := d.Str()
			ue.Message = v
			return err
		case "details":
			if d.Next() != jx.String {
				return d.Skip()
			}
			v, err := d.Str()
			ue.Details = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil || ue.Message == "" {
		ue.Message = fmt.Sprintf("upload failed: status %d", status)
		ue.Details = ""
	}
	return ue
}
