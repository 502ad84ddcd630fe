package server

import (
	"io"
	"net/http"
	"strings"

	"wallpapers/internal/catalog"
	"wallpapers/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	maxUploadBytes  = 32 << 20
	maxMemoryBytes  = 8 << 20
	unavailableText = "Drive service is not available."
)

var uploadMessages = []struct {
	err error
	msg string
}{
	{catalog.ErrNoFile, "No file uploaded."},
	{catalog.ErrMissingFields, "Missing required fields."},
	{catalog.ErrInvalidCategory, "Invalid category."},
	{catalog.ErrNotImage, "File must be an image."},
}

func (s *Server) ListWallpapersHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, unavailableText, "")
		return
	}

	ctx, span := tracer.Start(r.Context(), "server.ListWallpapers", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	wallpapers, err := s.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		s.logger.Error("error fetching wallpapers", zap.Error(err))

		if errors.Is(err, store.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, unavailableText, "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error fetching wallpapers.", err.Error())
		return
	}

	if wallpapers == nil {
		wallpapers = []catalog.Wallpaper{}
	}
	span.SetAttributes(attribute.Int("wallpapers", len(wallpapers)))
	writeJSON(w, http.StatusOK, wallpapers)
}

func (s *Server) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, unavailableText, "")
		return
	}

	ctx, span := tracer.Start(r.Context(), "server.Upload", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.metrics.upload("rejected")
			writeError(w, http.StatusRequestEntityTooLarge, "File too large.", "")
			return
		}
		s.metrics.upload("rejected")
		writeError(w, http.StatusBadRequest, "No file uploaded.", "")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	u := catalog.Upload{
		Title:    normalize(r.FormValue("alt")),
		Author:   normalize(r.FormValue("author")),
		Category: catalog.Category(r.FormValue("category")),
	}

	file, fh, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		s.metrics.upload("rejected")
		writeError(w, http.StatusBadRequest, "No file uploaded.", "")
		return
	default:
		defer file.Close()
		u.Filename = fh.Filename
		u.ContentType = fh.Header.Get("Content-Type")
		if u.File, err = io.ReadAll(file); err != nil {
			s.metrics.upload("rejected")
			writeError(w, http.StatusBadRequest, "No file uploaded.", "")
			return
		}
	}

	if err := u.Validate(); err != nil {
		s.metrics.upload("rejected")
		writeError(w, http.StatusBadRequest, uploadMessage(err), "")
		return
	}

	created, err := s.store.Create(ctx, u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		s.logger.Error("error uploading wallpaper", zap.Error(err))
		s.metrics.upload("failed")

		if errors.Is(err, store.ErrUnavailable) {
			writeError(w, http.StatusServiceUnavailable, unavailableText, "")
			return
		}
		writeError(w, http.StatusInternalServerError, "Error uploading file.", err.Error())
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishUploaded(ctx, created); err != nil {
			s.logger.Warn("publish upload event", zap.String("id", created.ID), zap.Error(err))
		}
	}

	s.metrics.upload("created")
	s.logger.Info("wallpaper created",
		zap.String("id", created.ID),
		zap.Stringer("category", created.Category),
		zap.Int("bytes", len(u.File)),
	)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) GetWallpaperTagsHandler(w http.ResponseWriter, r *http.Request) {
	if s.tags == nil {
		writeError(w, http.StatusNotFound, "Tags not found.", "")
		return
	}

	id := chi.URLParam(r, "id")
	t, err := s.tags.Get(r.Context(), id)
	if err != nil {
		s.logger.Error("error fetching tags", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error fetching tags.", err.Error())
		return
	}

	if t == nil {
		writeError(w, http.StatusNotFound, "Tags not found.", "")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func uploadMessage(err error) string {
	for _, m := range uploadMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
