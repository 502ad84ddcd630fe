package server

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
)

// ETag buffers a successful response and answers 304 when the client already
// holds the same body.
func ETag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := NewWrapperResponseWriter(w)
		next.ServeHTTP(ww, r)
		_, _ = ww.Flush(r.Header.Get("If-None-Match"))
	})
}

type wrapperResponseWriter struct {
	http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func NewWrapperResponseWriter(w http.ResponseWriter) *wrapperResponseWriter {
	return &wrapperResponseWriter{w, new(bytes.Buffer), http.StatusOK}
}

func (w *wrapperResponseWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *wrapperResponseWriter) Flush(ifNoneMatch string) (int64, error) {
	if w.statusCode < 200 || w.statusCode >= 300 {
		w.ResponseWriter.WriteHeader(w.statusCode)
		return w.buf.WriteTo(w.ResponseWriter)
	}

	// uploads change the list at any time, so clients must revalidate
	w.Header().Set("Cache-Control", "no-cache")
	etag := fmt.Sprintf("\"%x\"", md5.Sum(w.buf.Bytes()))
	w.Header().Set("ETag", etag)
	if ifNoneMatch == etag {
		w.Header().Del("Content-Type")
		w.ResponseWriter.WriteHeader(http.StatusNotModified)
		return 0, nil
	}

	w.ResponseWriter.WriteHeader(w.statusCode)
	return w.buf.WriteTo(w.ResponseWriter)
}

func (w *wrapperResponseWriter) WriteHeader(code int) {
	w.statusCode = code
}
