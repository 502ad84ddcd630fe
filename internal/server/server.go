package server

import (
	"context"
	"net/http"

	"wallpapers/internal/catalog"
	"wallpapers/internal/store"
	"wallpapers/internal/tags"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	rscors "github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("wallpapers/internal/server")

// Publisher announces created wallpapers.
type Publisher interface {
	PublishUploaded(ctx context.Context, w catalog.Wallpaper) error
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

func WithPublisher(p Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

func WithTags(t tags.Reader) Option {
	return func(s *Server) { s.tags = t }
}

func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// New builds the HTTP API over storer. A nil storer makes every data route
// answer 503.
func New(storer store.Storer, opts ...Option) Server {
	s := Server{
		store:   storer,
		logger:  zap.NewNop(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics("wallpapers")
	}

	cors := rscors.New(rscors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		Debug:          false,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(""))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Route("/api", func(r chi.Router) {
		r.With(ETag).Get("/wallpapers", s.ListWallpapersHandler)
		r.Get("/wallpapers/{id}/tags", s.GetWallpaperTagsHandler)
		r.Post("/upload", s.UploadHandler)
	})
	s.Handler = r
	return s
}

type Server struct {
	http.Handler
	store     store.Storer
	publisher Publisher
	tags      tags.Reader
	logger    *zap.Logger
	metrics   *Metrics
	origins   []string
}
