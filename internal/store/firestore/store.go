// Package firestore stores wallpaper metadata in Firestore and the image
// bytes in a Cloud Storage bucket.
package firestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"time"

	"wallpapers/internal/catalog"
	"wallpapers/internal/store"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

func New(collection string, firestore *firestore.Client, bucket *storage.BucketHandle, bucketName string) *Store {
	return &Store{
		collection: collection,
		firestore:  firestore,
		bucket:     bucket,
		bucketName: bucketName,
		now:        time.Now,
	}
}

type Store struct {
	collection string
	firestore  *firestore.Client
	bucket     *storage.BucketHandle
	bucketName string
	now        func() time.Time
}

var _ store.Storer = (*Store)(nil)

func (s *Store) List(ctx context.Context) ([]catalog.Wallpaper, error) {
	dsnap, err := s.firestore.Collection(s.collection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}

	docs := make([]Document, 0, len(dsnap))
	for _, doc := range dsnap {
		var d Document
		if err := doc.DataTo(&d); err != nil {
			return nil, errors.Wrapf(err, "decode %s", doc.Ref.ID)
		}
		docs = append(docs, d)
	}

	return ToWallpapers(docs), nil
}

func (s *Store) Create(ctx context.Context, u catalog.Upload) (catalog.Wallpaper, error) {
	id := uuid.NewString()

	w := s.bucket.Object(id).NewWriter(ctx)
	w.ContentType = u.ContentType
	if _, err := io.Copy(w, bytes.NewReader(u.File)); err != nil {
		_ = w.Close()
		return catalog.Wallpaper{}, errors.Wrap(err, "write object")
	}
	if err := w.Close(); err != nil {
		return catalog.Wallpaper{}, errors.Wrap(err, "close object")
	}

	width, height := Dimensions(u.File)
	doc := Document{
		ID:        id,
		Object:    id,
		URL:       ObjectURL(s.bucketName, id),
		Alt:       u.Title,
		Author:    u.Author,
		Category:  string(u.Category),
		Width:     width,
		Height:    height,
		CreatedAt: s.now(),
	}

	if _, err := s.firestore.Collection(s.collection).Doc(id).Set(ctx, doc); err != nil {
		return catalog.Wallpaper{}, errors.Wrap(err, "set document")
	}

	return doc.Wallpaper(), nil
}

func ObjectURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// Dimensions reads the pixel size from the image header, falling back to
// the default size for formats it cannot decode.
func Dimensions(b []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return store.DefaultWidth, store.DefaultHeight
	}
	return cfg.Width, cfg.Height
}
