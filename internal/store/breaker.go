package store

import (
	"context"
	"time"

	"wallpapers/internal/catalog"

	"github.com/go-faster/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Breaker guards a Storer with a circuit breaker. While the breaker is open
// calls fail fast with ErrUnavailable.
type Breaker struct {
	next Storer
	cb   *gobreaker.CircuitBreaker
}

func NewBreaker(next Storer, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
		// Client-side rejections say nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Breaker{next: next, cb: cb}
}

func (b *Breaker) List(ctx context.Context) ([]catalog.Wallpaper, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.next.List(ctx)
	})
	if err != nil {
		return nil, mapBreakerErr(err)
	}
	return res.([]catalog.Wallpaper), nil
}

func (b *Breaker) Create(ctx context.Context, u catalog.Upload) (catalog.Wallpaper, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.next.Create(ctx, u)
	})
	if err != nil {
		return catalog.Wallpaper{}, mapBreakerErr(err)
	}
	return res.(catalog.Wallpaper), nil
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.Wrap(ErrUnavailable, err.Error())
	}
	return err
}
