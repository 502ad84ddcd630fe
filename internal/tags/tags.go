// Package tags keeps the labels and dominant colours detected for each
// wallpaper, keyed by wallpaper id.
package tags

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/go-faster/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Tags struct {
	ID string `json:"id" firestore:"id"`
	// Labels maps a lower-case label to its confidence score.
	Labels map[string]float32 `json:"tags" firestore:"tags"`
	// Ordered holds the labels by descending score, spaces replaced by dashes.
	Ordered []string `json:"tagsOrdered" firestore:"tagsOrdered"`
	// Colors are hex strings like "#4A90D9".
	Colors []string `json:"colors,omitempty" firestore:"colors,omitempty"`
}

type Reader interface {
	Get(ctx context.Context, id string) (*Tags, error)
}

type Writer interface {
	Upsert(ctx context.Context, t Tags) error
}

func New(collection string, firestore *firestore.Client) *Store {
	return &Store{collection: collection, firestore: firestore}
}

type Store struct {
	collection string
	firestore  *firestore.Client
}

// Get returns nil without error when no tags are stored for id.
func (s *Store) Get(ctx context.Context, id string) (*Tags, error) {
	doc, err := s.firestore.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get tags %s", id)
	}

	var t Tags
	if err := doc.DataTo(&t); err != nil {
		return nil, errors.Wrapf(err, "decode tags %s", id)
	}
	return &t, nil
}

func (s *Store) Upsert(ctx context.Context, t Tags) error {
	_, err := s.firestore.Collection(s.collection).Doc(t.ID).Set(ctx, t)
	return errors.Wrapf(err, "set tags %s", t.ID)
}
