// Package gateway talks to the wallpaper server on behalf of the catalog.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"wallpapers/internal/catalog"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	listPath   = "/api/wallpapers"
	uploadPath = "/api/upload"
)

var (
	tracer = otel.Tracer("wallpapers/internal/gateway")
	meter  = otel.Meter("wallpapers/internal/gateway")

	unavailable, _ = meter.Int64Counter("gateway.fetch.unavailable",
		metric.WithDescription("Catalog fetches that fell back to sample data"))
)

// Client is the remote side of catalog.Store. It never retries; a failed
// call is reported to the caller straight away.
type Client struct {
	BaseURL string
	HC      *http.Client
}

func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HC: hc}
}

// FetchCatalog lists the wallpapers. Every failure, whether transport,
// status or body, comes back as catalog.Unavailable.
func (c *Client) FetchCatalog(ctx context.Context) catalog.FetchOutcome {
	ctx, span := tracer.Start(ctx, "gateway.FetchCatalog", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	s, err := c.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unavailable")
		unavailable.Add(ctx, 1)
		return catalog.Unavailable(err.Error())
	}

	span.SetAttributes(attribute.Int("wallpapers", len(s)))
	return catalog.Success(s)
}

func (c *Client) fetch(ctx context.Context) (catalog.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(listPath), nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "list wallpapers")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("list wallpapers: status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}

	return decodeSnapshot(b)
}

// SubmitUpload posts u as a multipart form and returns the wallpaper the
// server created. u is forwarded as is; the server validates it. Any failure
// is an *UploadError.
func (c *Client) SubmitUpload(ctx context.Context, u catalog.Upload) (catalog.Wallpaper, error) {
	ctx, span := tracer.Start(ctx, "gateway.SubmitUpload", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	w, err := c.submit(ctx, u)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return catalog.Wallpaper{}, err
	}

	span.SetAttributes(attribute.String("wallpaper.id", w.ID))
	return w, nil
}

func (c *Client) submit(ctx context.Context, u catalog.Upload) (catalog.Wallpaper, error) {
	body, contentType, err := multipartBody(u)
	if err != nil {
		return catalog.Wallpaper{}, &UploadError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(uploadPath), body)
	if err != nil {
		return catalog.Wallpaper{}, &UploadError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return catalog.Wallpaper{}, &UploadError{Message: err.Error()}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.Wallpaper{}, &UploadError{Message: err.Error(), Status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return catalog.Wallpaper{}, decodeUploadError(resp.StatusCode, b)
	}

	w, err := decodeWallpaperBytes(b)
	if err != nil {
		return catalog.Wallpaper{}, &UploadError{Message: err.Error(), Status: resp.StatusCode}
	}
	return w, nil
}

func multipartBody(u catalog.Upload) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	filename := u.Filename
	if filename == "" {
		filename = "upload"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if u.ContentType != "" {
		h.Set("Content-Type", u.ContentType)
	}

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.File); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"alt", u.Title},
		{"author", u.Author},
		{"category", string(u.Category)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *Client) httpClient() *http.Client {
	if c.HC == nil {
		return http.DefaultClient
	}
	return c.HC
}
