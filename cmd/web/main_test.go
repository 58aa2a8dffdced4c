package main

import (
	"html/template"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penguindash/internal/services"
)

func TestFrontendEmbedding(t *testing.T) {
	frontendFS, err := fs.Sub(frontendFiles, "frontend")
	require.NoError(t, err)

	for _, name := range []string{
		"index.html",
		"static/css/app.css",
		"static/js/dashboard.js",
	} {
		t.Run(name, func(t *testing.T) {
			data, err := fs.ReadFile(frontendFS, name)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestIndexTemplateParses(t *testing.T) {
	tmpl, err := template.ParseFS(frontendFiles, "frontend/index.html")
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, tmpl.Execute(&out, map[string]string{
		"Title":     "Palmer Penguins Dashboard",
		"Version":   "test",
		"BuildTime": "now",
	}))
	assert.Contains(t, out.String(), "Palmer Penguins Dashboard")
	assert.Contains(t, out.String(), "/static/js/dashboard.js")
}

func TestDashboardScriptRendersGridMode(t *testing.T) {
	data, err := fs.ReadFile(frontendFiles, "frontend/static/js/dashboard.js")
	require.NoError(t, err)

	js := string(data)
	assert.Contains(t, js, `table.mode === "`+services.TableModeGrid+`"`)
	assert.Contains(t, js, "el.className = table.mode")

	css, err := fs.ReadFile(frontendFiles, "frontend/static/css/app.css")
	require.NoError(t, err)
	assert.Contains(t, string(css), "table."+services.TableModeGrid)
}
