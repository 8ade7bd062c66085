package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/common"
	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/internal/nid"
)

const testToken = "test-token"

type stubEngine struct {
	result nid.Result
	called bool
}

func (s *stubEngine) Extract(_ context.Context, _ any) nid.Result {
	s.called = true
	return s.result
}

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	return &common.Config{
		Auth: common.AuthConfig{
			Token:      testToken,
			HeaderName: "X-API-Token",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Upload: common.UploadConfig{
			MaxUploadBytes: 5 * 1024 * 1024,
			CacheDir:       t.TempDir(),
		},
	}
}

func newTestServer(t *testing.T, engine Extractor, cfg *common.Config) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(engine, NewSlidingWindow(cfg.Auth.RateLimit, cfg.Auth.RateWindow), logger, cfg)
}

// multipartImage builds a request body with a tiny valid PNG under the
// "image" field plus the given extra form fields.
func multipartImage(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(fw, img))

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "NID Extractor API is running.")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestProcessImage_RequiresToken(t *testing.T) {
	engine := &stubEngine{}
	srv := newTestServer(t, engine, testConfig(t))

	body, ct := multipartImage(t, "card.png", nil)
	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication required")
	assert.False(t, engine.called)
}

func TestProcessImage_RejectsWrongToken(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	body, ct := multipartImage(t, "card.png", nil)
	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-API-Token", "wrong")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid authentication token")
}

func TestProcessImage_HappyPathWithSimilarity(t *testing.T) {
	engine := &stubEngine{result: nid.Result{
		Name:        "JOHN SMITH",
		DateOfBirth: "05-Jan-1990",
		IDNumber:    "1234567890",
		FullText:    "Name: JOHN SMITH ...",
	}}
	srv := newTestServer(t, engine, testConfig(t))

	body, ct := multipartImage(t, "card.png", map[string]string{
		"Name":          "JOHN SMITH",
		"Date of Birth": "05-Jan-1990",
	})
	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-API-Token", testToken)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, engine.called)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "JOHN SMITH", got["Name"])
	assert.Equal(t, "05-Jan-1990", got["Date of birth"])
	assert.Equal(t, "1234567890", got["ID Number"])

	sim, ok := got["similarity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "partial_comparison", sim["status"])
	assert.Equal(t, 1.0, sim["name_similarity"])
	assert.Equal(t, 1.0, sim["dob_similarity"])
}

func TestProcessImage_NoComparisonData(t *testing.T) {
	engine := &stubEngine{result: nid.Result{Name: "JOHN SMITH"}}
	srv := newTestServer(t, engine, testConfig(t))

	body, ct := multipartImage(t, "card.png", nil)
	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-API-Token", testToken)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	sim, ok := got["similarity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "no_comparison_data_provided", sim["status"])
	_, hasName := sim["name_similarity"]
	assert.False(t, hasName)
}

func TestProcessImage_MissingImageField(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("Name", "JOHN"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/process_image", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-API-Token", testToken)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No image provided")
}

func TestProcessImage_DisallowedExtension(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	body, ct := multipartImage(t, "card.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/process_image", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("X-API-Token", testToken)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "File type not allowed")
}

func TestProcessImage_MIMESniffRejectsFakeImage(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", "card.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 definitely not an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/process_image", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-API-Token", testToken)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid file format")
}

func TestProcessImage_RateLimited(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.RateLimit = 1
	srv := newTestServer(t, &stubEngine{}, cfg)

	for i := 0; i < 2; i++ {
		body, ct := multipartImage(t, "card.png", nil)
		req := httptest.NewRequest(http.MethodPost, "/process_image", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("X-API-Token", testToken)

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			assert.Contains(t, rec.Body.String(), "Rate limit exceeded")
		}
	}
}

func TestUnknownEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Endpoint not found")
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubEngine{}, testConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
