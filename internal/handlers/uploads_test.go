package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}

	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUploadImageNormalizesToJPEG(t *testing.T) {
	r, cfg := testRouter(t)

	body, contentType := multipartBody(t,
		map[string]string{"category": "works"},
		"file", "screenshot.png", encodeTestPNG(t, 640, 480))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	url := resp["url"]
	assert.True(t, strings.HasPrefix(url, "/api/images/works/"), "unexpected url %q", url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), "unexpected url %q", url)

	stored := filepath.Join(cfg.UploadsRoot(), "works", filepath.Base(url))
	assert.FileExists(t, stored)
}

func TestUploadImageUnknownCategoryFallsBack(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := multipartBody(t,
		map[string]string{"category": "analytics"},
		"file", "pic.png", encodeTestPNG(t, 10, 10))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["url"], "/api/images/thoughts/"), "unexpected url %q", resp["url"])
}

func TestUploadImageMissingFile(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := multipartBody(t, map[string]string{"category": "thoughts"}, "", "", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestServeImage(t *testing.T) {
	r, cfg := testRouter(t)
	writeUploadFile(t, cfg, "works", "shot.jpg")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/images/works/shot.jpg", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "file-content", w.Body.String())
}

func TestServeImageSniffsContentType(t *testing.T) {
	r, cfg := testRouter(t)

	// PNG bytes stored under a .jpg name; the header must reflect the
	// bytes, not the extension.
	dir := filepath.Join(cfg.UploadsRoot(), "works")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mislabeled.jpg"), encodeTestPNG(t, 8, 8), 0o644))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/images/works/mislabeled.jpg", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestServeImageUnknownCategory(t *testing.T) {
	r, cfg := testRouter(t)
	writeUploadFile(t, cfg, "works", "shot.jpg")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/images/private/shot.jpg", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeImageMissingFile(t *testing.T) {
	r, _ := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/images/thoughts/nope.jpg", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Image not found")
}

func TestServeImageBlob(t *testing.T) {
	r, cfg := testRouter(t)
	writeUploadFile(t, cfg, "analytics", "report.pdf")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/images/analytics/report.pdf/blob", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.pdf")
	assert.Equal(t, "file-content", w.Body.String())
}
