package catalog

import "slices"

// Wallpaper is one displayable image. Title travels as "alt" on the wire.
type Wallpaper struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Title    string   `json:"alt"`
	Author   string   `json:"author"`
	Category Category `json:"category"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
}

// Snapshot is an ordered catalog, newest first. Methods never modify the
// receiver; they return a new slice.
type Snapshot []Wallpaper

// Filter returns the wallpapers in category c, keeping their order. All
// returns a copy of s.
func (s Snapshot) Filter(c Category) Snapshot {
	if c == All {
		return slices.Clone(s)
	}

	res := make(Snapshot, 0, len(s))
	for _, w := range s {
		if w.Category == c {
			res = append(res, w)
		}
	}
	return res
}

// Prepend returns [w] ++ s.
func (s Snapshot) Prepend(w Wallpaper) Snapshot {
	res := make(Snapshot, 0, len(s)+1)
	res = append(res, w)
	return append(res, s...)
}

// Valid returns the wallpapers with a storable category and the number of
// wallpapers dropped.
func (s Snapshot) Valid() (Snapshot, int) {
	res := make(Snapshot, 0, len(s))
	for _, w := range s {
		if w.Category.Valid() {
			res = append(res, w)
		}
	}
	return res, len(s) - len(res)
}
