package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/shared/testutil"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":         {Data: []byte(`<html><title>{{.Title}}</title><body>v{{.Version}}</body></html>`)},
		"static/css/app.css": {Data: []byte("body{margin:0}")},
	}
}

func TestHTMLHandler_ServeIndex(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h, err := NewHTMLHandler(testFS(), PageData{Title: "Penguins <3", Version: "1.0.0"}, logger)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeIndex(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Penguins &lt;3")
	assert.Contains(t, w.Body.String(), "v1.0.0")
}

func TestHTMLHandler_ServeStatic(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h, err := NewHTMLHandler(testFS(), PageData{}, logger)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.ServeStatic(w, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body{margin:0}", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeStatic(w, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHTMLHandler_MissingIndex(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, err := NewHTMLHandler(fstest.MapFS{}, PageData{}, logger)
	assert.Error(t, err)
}
