package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Remote is the network side of the catalog.
type Remote interface {
	FetchCatalog(ctx context.Context) FetchOutcome
	SubmitUpload(ctx context.Context, u Upload) (Wallpaper, error)
}

// State is the load state of a Store.
type State int

const (
	Idle State = iota
	Loading
	Populated
	PopulatedFallback
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case PopulatedFallback:
		return "populated-fallback"
	}
	return "unknown"
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithFallback(f Fallback) Option {
	return func(s *Store) { s.fallback = f }
}

// Store holds the current catalog snapshot.
//
// Loads are not serialised: two concurrent loads race and the last one to
// resolve wins. A load always replaces the snapshot, so one that resolves
// after an upload drops the uploaded wallpaper until the next load.
type Store struct {
	remote   Remote
	fallback Fallback
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot Snapshot
	state    State
	advisory string
	inflight int
}

func NewStore(remote Remote, opts ...Option) *Store {
	s := &Store{
		remote:   remote,
		fallback: SampleFallback{},
		logger:   zap.NewNop(),
		snapshot: Snapshot{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the catalog and replaces the snapshot with the result, or
// with the fallback when the catalog is unavailable. Failures never reach
// the caller; the returned state tells which way it went.
func (s *Store) Load(ctx context.Context) State {
	s.mu.Lock()
	s.state = Loading
	s.inflight++
	s.mu.Unlock()

	outcome := s.remote.FetchCatalog(ctx)
	snapshot, advisory := s.fallback.Resolve(outcome)

	state := Populated
	if !outcome.Available() {
		state = PopulatedFallback
		s.logger.Warn("catalog unavailable, using fallback",
			zap.String("reason", outcome.Reason()),
			zap.Int("count", len(snapshot)),
		)
	}

	snapshot, dropped := snapshot.Valid()
	if dropped > 0 {
		s.logger.Warn("dropped wallpapers with invalid category", zap.Int("dropped", dropped))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.snapshot = snapshot
	s.advisory = advisory
	if s.inflight == 0 {
		s.state = state
	}
	return state
}

// LoadAsync runs Load in its own goroutine and delivers the resulting state.
func (s *Store) LoadAsync(ctx context.Context) <-chan State {
	ch := make(chan State, 1)
	go func() {
		ch <- s.Load(ctx)
		close(ch)
	}()
	return ch
}

// FilterBy returns the wallpapers in category c in snapshot order. The
// result is owned by the caller.
func (s *Store) FilterBy(c Category) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Filter(c)
}

// RecordUpload prepends w. Ids are issued by the provider and are not
// checked for duplicates.
func (s *Store) RecordUpload(w Wallpaper) error {
	if !w.Category.Valid() {
		return errors.Wrapf(ErrInvalidCategory, "wallpaper %s: %q", w.ID, w.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = s.snapshot.Prepend(w)
	return nil
}

// Upload submits u and records the created wallpaper. On error the snapshot
// is left as it was.
func (s *Store) Upload(ctx context.Context, u Upload) (Wallpaper, error) {
	w, err := s.remote.SubmitUpload(ctx, u)
	if err != nil {
		return Wallpaper{}, err
	}

	if err := s.RecordUpload(w); err != nil {
		return Wallpaper{}, err
	}

	s.logger.Info("wallpaper uploaded", zap.String("id", w.ID), zap.Stringer("category", w.Category))
	return w, nil
}

// Snapshot returns a copy of the current catalog.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.snapshot)
}

func (s *Store) Advisory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.advisory
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
