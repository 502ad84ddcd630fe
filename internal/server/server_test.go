package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"wallpapers/internal/catalog"
	"wallpapers/internal/server"
	"wallpapers/internal/store"
	"wallpapers/internal/tags"
	"wallpapers/mocks"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var hc = http.Client{Timeout: 2 * time.Second}

var pastel = catalog.Wallpaper{
	ID:       "abc",
	URL:      "https://drive.google.com/thumbnail?id=abc&sz=w2048",
	Title:    "Dusk",
	Author:   "Ana",
	Category: catalog.Pastel,
	Width:    1920,
	Height:   1080,
}

func TestListWallpapers_ReturnsAListOfWallpapers(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return([]catalog.Wallpaper{pastel}, nil)

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)

	var list []catalog.Wallpaper
	require.Nil(t, convertTo(res.Body, &list))

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []catalog.Wallpaper{pastel}, list)
	assert.NotEmpty(t, res.Header.Get("ETag"))
	assert.Equal(t, "no-cache", res.Header.Get("Cache-Control"))
}

func TestListWallpapers_EmptyIsAnArray(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return(nil, nil)

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "[]", readBody(t, res))
}

func TestListWallpapers_NotModified(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return([]catalog.Wallpaper{pastel}, nil).Twice()

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)
	etag := res.Header.Get("ETag")
	_ = readBody(t, res)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/wallpapers", nil)
	require.Nil(t, err)
	req.Header.Set("If-None-Match", etag)

	res, err = hc.Do(req)
	require.Nil(t, err)

	assert.Equal(t, http.StatusNotModified, res.StatusCode)
	assert.Empty(t, readBody(t, res))
}

func TestListWallpapers_BackendError(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return(nil, errors.New("quota exceeded"))

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)

	var e server.ErrorResponse
	require.Nil(t, convertTo(res.Body, &e))

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Error fetching wallpapers.", e.Error)
	assert.Equal(t, "quota exceeded", e.Details)
	assert.Empty(t, res.Header.Get("ETag"))
}

func TestListWallpapers_BackendUnavailable(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return(nil, errors.Wrap(store.ErrUnavailable, "breaker open"))

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)

	var e server.ErrorResponse
	require.Nil(t, convertTo(res.Body, &e))

	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "Drive service is not available.", e.Error)
}

func TestNoStorer_ServiceUnavailable(t *testing.T) {
	ts := httptest.NewServer(server.New(nil))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	_ = readBody(t, res)

	body, contentType := uploadForm(t, imagePart("a.png", "image/png", []byte("png")), map[string]string{
		"alt": "Dusk", "author": "Ana", "category": "Pastel",
	})
	res, err = hc.Post(ts.URL+"/api/upload", contentType, body)
	require.Nil(t, err)

	var e server.ErrorResponse
	require.Nil(t, convertTo(res.Body, &e))
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.Equal(t, "Drive service is not available.", e.Error)
}

func TestUpload_CreatesAndPublishes(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("Create", mock.Anything, mock.MatchedBy(func(u catalog.Upload) bool {
		return u.Title == "Caf\u00e9" &&
			u.Author == "Ana" &&
			u.Category == catalog.Pastel &&
			u.ContentType == "image/png" &&
			u.Filename == "a.png" &&
			string(u.File) == "png-bytes"
	})).Return(pastel, nil)
	pub := &fakePublisher{}

	ts := httptest.NewServer(server.New(db, server.WithPublisher(pub)))
	defer ts.Close()

	body, contentType := uploadForm(t, imagePart("a.png", "image/png", []byte("png-bytes")), map[string]string{
		"alt": " Cafe\u0301 ", "author": "Ana", "category": "Pastel",
	})
	res, err := hc.Post(ts.URL+"/api/upload", contentType, body)
	require.Nil(t, err)

	var created catalog.Wallpaper
	require.Nil(t, convertTo(res.Body, &created))

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, pastel, created)
	assert.Equal(t, []catalog.Wallpaper{pastel}, pub.Published())
}

func TestUpload_PublishFailureStillCreates(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("Create", mock.Anything, mock.Anything).Return(pastel, nil)
	pub := &fakePublisher{err: errors.New("topic gone")}

	ts := httptest.NewServer(server.New(db, server.WithPublisher(pub)))
	defer ts.Close()

	body, contentType := uploadForm(t, imagePart("a.png", "image/png", []byte("png")), map[string]string{
		"alt": "Dusk", "author": "Ana", "category": "Pastel",
	})
	res, err := hc.Post(ts.URL+"/api/upload", contentType, body)
	require.Nil(t, err)
	_ = readBody(t, res)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestUpload_EmptyImageAccepted(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("Create", mock.Anything, mock.MatchedBy(func(u catalog.Upload) bool {
		return u.File != nil && len(u.File) == 0 && u.ContentType == "image/png"
	})).Return(pastel, nil)

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	body, contentType := uploadForm(t, imagePart("empty.png", "image/png", nil), map[string]string{
		"alt": "Dusk", "author": "Ana", "category": "Pastel",
	})
	res, err := hc.Post(ts.URL+"/api/upload", contentType, body)
	require.Nil(t, err)
	_ = readBody(t, res)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestUpload_EmptyNonImageRejected(t *testing.T) {
	db := mocks.NewStorer(t)
	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	body, contentType := uploadForm(t, imagePart("empty.txt", "text/plain", nil), map[string]string{
		"alt": "Dusk", "author": "Ana", "category": "Pastel",
	})
	res, err := hc.Post(ts.URL+"/api/upload", contentType, body)
	require.Nil(t, err)

	var e server.ErrorResponse
	require.Nil(t, convertTo(res.Body, &e))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "File must be an image.", e.Error)
}

func TestUpload_Rejected(t *testing.T) {
	valid := map[string]string{"alt": "Dusk", "author": "Ana", "category": "Pastel"}
	without := func(key string) map[string]string {
		m := map[string]string{}
		for k, v := range valid {
			if k != key {
				m[k] = v
			}
		}
		return m
	}
	with := func(key, value string) map[string]string {
		m := without(key)
		m[key] = value
		return m
	}
	png := imagePart("a.png", "image/png", []byte("png"))

	tests := []struct {
		name   string
		file   *part
		fields map[string]string
		msg    string
	}{
		{"no file", nil, valid, "No file uploaded."},
		{"no file and no fields", nil, map[string]string{}, "No file uploaded."},
		{"missing title", png, without("alt"), "Missing required fields."},
		{"blank author", png, with("author", "   "), "Missing required fields."},
		{"missing category", png, without("category"), "Missing required fields."},
		{"unknown category", png, with("category", "Nature"), "Invalid category."},
		{"all is not storable", png, with("category", "All"), "Invalid category."},
		{"not an image", imagePart("a.txt", "text/plain", []byte("hi")), valid, "File must be an image."},
		{"invalid category before content type", imagePart("a.txt", "text/plain", []byte("hi")), with("category", "Nature"), "Invalid category."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := mocks.NewStorer(t)
			ts := httptest.NewServer(server.New(db))
			defer ts.Close()

			body, contentType := uploadForm(t, tt.file, tt.fields)
			res, err := hc.Post(ts.URL+"/api/upload", contentType, body)
			require.Nil(t, err)

			var e server.ErrorResponse
			require.Nil(t, convertTo(res.Body, &e))

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.Equal(t, tt.msg, e.Error)
			db.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	db := mocks.NewStorer(t)
	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Post(ts.URL+"/api/upload", "application/json", strings.NewReader(`{}`))
	require.Nil(t, err)

	var e server.ErrorResponse
	require.Nil(t, convertTo(res.Body, &e))

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "No file uploaded.", e.Error)
}

func TestUpload_BackendError(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("Create", mock.Anything, mock.Anything).Return(catalog.Wallpaper{}, errors.New("insufficient permissions"))
	pub := &fakePublisher{}

	ts := httptest.NewServer(server.New(db, server.WithPublisher(pub)))
	defer ts.Close()

	body, contentType := uploadForm(t, imagePart("a.png", "image/png", []byte("png")), map[string]string{
		"alt": "Dusk", "author": "Ana", "category": "Pastel",
	})
	res, err := hc.Post(ts.URL+"/api/upload", contentType, body)
	require.Nil(t, err)

	var e server.ErrorResponse
	require.Nil(t, convertTo(res.Body, &e))

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Error uploading file.", e.Error)
	assert.Equal(t, "insufficient permissions", e.Details)
	assert.Empty(t, pub.Published())
}

func TestWallpaperTags(t *testing.T) {
	reader := fakeTags{"abc": {ID: "abc", Labels: map[string]float32{"sky": 0.9}, Ordered: []string{"sky"}}}

	ts := httptest.NewServer(server.New(mocks.NewStorer(t), server.WithTags(reader)))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers/abc/tags")
	require.Nil(t, err)

	var got tags.Tags
	require.Nil(t, convertTo(res.Body, &got))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"sky"}, got.Ordered)

	res, err = hc.Get(ts.URL + "/api/wallpapers/missing/tags")
	require.Nil(t, err)
	_ = readBody(t, res)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestWallpaperTags_Disabled(t *testing.T) {
	ts := httptest.NewServer(server.New(mocks.NewStorer(t)))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers/abc/tags")
	require.Nil(t, err)
	_ = readBody(t, res)

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestCORS(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return(nil, nil)

	ts := httptest.NewServer(server.New(db, server.WithCORSOrigins("https://gallery.example")))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/wallpapers", nil)
	require.Nil(t, err)
	req.Header.Set("Origin", "https://gallery.example")

	res, err := hc.Do(req)
	require.Nil(t, err)
	_ = readBody(t, res)

	assert.Equal(t, "https://gallery.example", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetrics(t *testing.T) {
	db := mocks.NewStorer(t)
	db.On("List", mock.Anything).Return(nil, nil)

	ts := httptest.NewServer(server.New(db))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/api/wallpapers")
	require.Nil(t, err)
	_ = readBody(t, res)

	res, err = hc.Get(ts.URL + "/metrics")
	require.Nil(t, err)
	body := readBody(t, res)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `wallpapers_http_requests_total{method="GET",route="/api/wallpapers",status="200"} 1`)
}

func TestLiveness(t *testing.T) {
	ts := httptest.NewServer(server.New(nil))
	defer ts.Close()

	res, err := hc.Get(ts.URL + "/")
	require.Nil(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Empty(t, readBody(t, res))
}

type part struct {
	filename    string
	contentType string
	data        []byte
}

func imagePart(filename, contentType string, data []byte) *part {
	return &part{filename, contentType, data}
}

func uploadForm(t *testing.T, file *part, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+file.filename+`"`)
		h.Set("Content-Type", file.contentType)
		w, err := mw.CreatePart(h)
		require.Nil(t, err)
		_, err = w.Write(file.data)
		require.Nil(t, err)
	}
	for k, v := range fields {
		require.Nil(t, mw.WriteField(k, v))
	}
	require.Nil(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

type fakePublisher struct {
	mu        sync.Mutex
	published []catalog.Wallpaper
	err       error
}

func (p *fakePublisher) PublishUploaded(_ context.Context, w catalog.Wallpaper) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, w)
	return p.err
}

func (p *fakePublisher) Published() []catalog.Wallpaper {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published
}

type fakeTags map[string]*tags.Tags

func (f fakeTags) Get(_ context.Context, id string) (*tags.Tags, error) {
	return f[id], nil
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.Nil(t, err)
	return string(b)
}

func convertTo(r io.ReadCloser, out any) error {
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, out)
}
