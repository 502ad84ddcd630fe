// Package store defines the backends that persist wallpapers for the server.
package store

import (
	"context"

	"wallpapers/internal/catalog"

	"github.com/go-faster/errors"
)

// ErrUnavailable is returned when the backend is not ready to serve.
var ErrUnavailable = errors.New("storage backend unavailable")

// Storer persists wallpapers in an external provider. List returns only
// wallpapers with a storable category, newest first.
type Storer interface {
	List(ctx context.Context) ([]catalog.Wallpaper, error)
	Create(ctx context.Context, u catalog.Upload) (catalog.Wallpaper, error)
}

// Default dimensions when the provider has no image metadata.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)
