package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"wallpapers/internal/catalog"
	"wallpapers/internal/store"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStorer struct {
	calls int
	err   error
}

func (f *failingStorer) List(context.Context) ([]catalog.Wallpaper, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []catalog.Wallpaper{{ID: "1", Category: catalog.Pastel}}, nil
}

func (f *failingStorer) Create(_ context.Context, u catalog.Upload) (catalog.Wallpaper, error) {
	f.calls++
	if f.err != nil {
		return catalog.Wallpaper{}, f.err
	}
	return catalog.Wallpaper{ID: "new", Title: u.Title, Category: u.Category}, nil
}

func testConfig() store.BreakerConfig {
	cfg := store.DefaultBreakerConfig("test")
	cfg.MinRequests = 2
	cfg.FailureThreshold = 1
	cfg.Timeout = time.Hour
	return cfg
}

func TestBreaker_PassesThrough(t *testing.T) {
	next := &failingStorer{}
	b := store.NewBreaker(next, testConfig(), zap.NewNop())

	list, err := b.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	w, err := b.Create(context.Background(), catalog.Upload{Title: "t", Category: catalog.Pastel})
	require.NoError(t, err)
	assert.Equal(t, "new", w.ID)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	boom := errors.New("drive: 500")
	next := &failingStorer{err: boom}
	b := store.NewBreaker(next, testConfig(), zap.NewNop())

	_, err := b.List(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = b.List(context.Background())
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, gobreaker.StateOpen, b.State())

	_, err = b.List(context.Background())
	assert.ErrorIs(t, err, store.ErrUnavailable)
	_, err = b.Create(context.Background(), catalog.Upload{})
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, 2, next.calls)
}

func TestBreaker_CanceledDoesNotTrip(t *testing.T) {
	next := &failingStorer{err: context.Canceled}
	b := store.NewBreaker(next, testConfig(), zap.NewNop())

	for i := 0; i < 5; i++ {
		_, err := b.List(context.Background())
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}
