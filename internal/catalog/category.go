package catalog

import (
	"github.com/go-faster/errors"
)

// Category is one of the gallery categories. All is a filter value only and
// is never stored on a wallpaper.
type Category string

const (
	All        Category = "All"
	Abstract   Category = "Abstract"
	Pastel     Category = "Pastel"
	Minimalist Category = "Minimalist"
	Interiors  Category = "Interiors"
)

// ErrInvalidCategory is returned for values outside the category set.
var ErrInvalidCategory = errors.New("invalid category")

var (
	// Categories are the values a stored wallpaper may carry.
	Categories = []Category{Abstract, Pastel, Minimalist, Interiors}

	// FilterCategories is the display order of the category filter.
	FilterCategories = []Category{All, Abstract, Pastel, Interiors, Minimalist}
)

// ParseCategory accepts any filter value, All included.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c == All || c.Valid() {
		return c, nil
	}
	return "", errors.Wrapf(ErrInvalidCategory, "%q", s)
}

// Valid reports whether c may be stored on a wallpaper.
func (c Category) Valid() bool {
	switch c {
	case Abstract, Pastel, Minimalist, Interiors:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
