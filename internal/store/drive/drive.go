// Package drive stores wallpapers as files in a Google Drive folder. Wallpaper
// metadata lives in each file's appProperties.
package drive

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"wallpapers/internal/catalog"
	"wallpapers/internal/store"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	listFields    = "nextPageToken, files(id, name, appProperties, imageMediaMetadata)"
	unknownAuthor = "Unknown"
)

// ThumbnailURL is the public render URL of a Drive file.
func ThumbnailURL(id string) string {
	return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w2048", id)
}

type Store struct {
	srv      *drive.Service
	folderID string
	logger   *zap.Logger
}

var _ store.Storer = (*Store)(nil)

func New(ctx context.Context, folderID string, logger *zap.Logger, opts ...option.ClientOption) (*Store, error) {
	if folderID == "" {
		return nil, errors.New("drive folder id is required")
	}

	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "drive service")
	}

	return &Store{srv: srv, folderID: folderID, logger: logger}, nil
}

func (s *Store) List(ctx context.Context) ([]catalog.Wallpaper, error) {
	q := fmt.Sprintf("'%s' in parents and trashed=false", strings.ReplaceAll(s.folderID, "'", `\'`))

	wallpapers := make([]catalog.Wallpaper, 0)
	err := s.srv.Files.List().
		Q(q).
		Fields(listFields).
		OrderBy("createdTime desc").
		Pages(ctx, func(fl *drive.FileList) error {
			for _, f := range fl.Files {
				w, ok := toWallpaper(f)
				if !ok {
					s.logger.Debug("skipping file without category", zap.String("id", f.Id))
					continue
				}
				wallpapers = append(wallpapers, w)
			}
			return nil
		})
	if err != nil {
		return nil, errors.Wrap(err, "list drive files")
	}

	return wallpapers, nil
}

func (s *Store) Create(ctx context.Context, u catalog.Upload) (catalog.Wallpaper, error) {
	f, err := s.srv.Files.Create(&drive.File{
		Name:    u.Title,
		Parents: []string{s.folderID},
		AppProperties: map[string]string{
			"alt":      u.Title,
			"author":   u.Author,
			"category": string(u.Category),
		},
	}).
		Media(bytes.NewReader(u.File), googleapi.ContentType(u.ContentType)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return catalog.Wallpaper{}, errors.Wrap(err, "create drive file")
	}

	if _, err := s.srv.Permissions.Create(f.Id, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do(); err != nil {
		return catalog.Wallpaper{}, errors.Wrapf(err, "share drive file %s", f.Id)
	}

	meta, err := s.srv.Files.Get(f.Id).Fields("imageMediaMetadata").Context(ctx).Do()
	if err != nil {
		return catalog.Wallpaper{}, errors.Wrapf(err, "get drive file %s", f.Id)
	}

	width, height := dimensions(meta.ImageMediaMetadata)
	return catalog.Wallpaper{
		ID:       f.Id,
		URL:      ThumbnailURL(f.Id),
		Title:    u.Title,
		Author:   u.Author,
		Category: u.Category,
		Width:    width,
		Height:   height,
	}, nil
}

func toWallpaper(f *drive.File) (catalog.Wallpaper, bool) {
	props := f.AppProperties
	category := catalog.Category(props["category"])
	if !category.Valid() {
		return catalog.Wallpaper{}, false
	}

	alt := props["alt"]
	if alt == "" {
		alt = f.Name
	}

	author := props["author"]
	if author == "" {
		author = unknownAuthor
	}

	width, height := dimensions(f.ImageMediaMetadata)
	return catalog.Wallpaper{
		ID:       f.Id,
		URL:      ThumbnailURL(f.Id),
		Title:    alt,
		Author:   author,
		Category: category,
		Width:    width,
		Height:   height,
	}, true
}

func dimensions(m *drive.FileImageMediaMetadata) (int, int) {
	width, height := store.DefaultWidth, store.DefaultHeight
	if m == nil {
		return width, height
	}
	if m.Width > 0 {
		width = int(m.Width)
	}
	if m.Height > 0 {
		height = int(m.Height)
	}
	return width, height
}
