package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"medialink.example.yaml":       {Data: []byte("output_format: html\n")},
		"templates/document.html.tmpl": {Data: []byte("<html>{{ .Body }}</html>")},
		"templates/document.md.tmpl":   {Data: []byte("{{ .Body }}")},
	}
}

func TestEnsureConfigPresent(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bin", "medialink.yaml")

	created, err := EnsureConfigPresent(dst, testFS(), "medialink.example.yaml")
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, os.WriteFile(dst, []byte("output_format: md\n"), 0o644))
	created, err = EnsureConfigPresent(dst, testFS(), "medialink.example.yaml")
	require.NoError(t, err)
	assert.False(t, created)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "output_format: md\n", string(got), "existing file must not be replaced")
}

func TestEnsureConfigPresent_MissingAsset(t *testing.T) {
	_, err := EnsureConfigPresent(filepath.Join(t.TempDir(), "x.yaml"), testFS(), "nope.yaml")
	assert.Error(t, err)
}

func TestEnsureTemplatesPresent_KeepsUserFiles(t *testing.T) {
	tplDir := filepath.Join(t.TempDir(), "templates")
	srcs := []string{"templates/document.html.tmpl", "templates/document.md.tmpl"}

	require.NoError(t, EnsureTemplatesPresent(tplDir, testFS(), srcs))
	assert.FileExists(t, filepath.Join(tplDir, "document.html.tmpl"))
	assert.FileExists(t, filepath.Join(tplDir, "document.md.tmpl"))

	custom := filepath.Join(tplDir, "document.html.tmpl")
	require.NoError(t, os.WriteFile(custom, []byte("custom"), 0o644))
	require.NoError(t, os.Remove(filepath.Join(tplDir, "document.md.tmpl")))

	require.NoError(t, EnsureTemplatesPresent(tplDir, testFS(), srcs))
	got, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(got))
	assert.FileExists(t, filepath.Join(tplDir, "document.md.tmpl"))
}

func TestEnsureTemplatesPresent_MissingParent(t *testing.T) {
	err := EnsureTemplatesPresent(filepath.Join(t.TempDir(), "a", "b", "templates"), testFS(), nil)
	assert.Error(t, err)
}

func TestExportDefaults(t *testing.T) {
	dest := t.TempDir()

	status, err := ExportDefaults(testFS(), "templates", dest, false)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, status["templates/document.html.tmpl"])
	assert.Equal(t, StatusWritten, status["templates/document.md.tmpl"])

	status, err = ExportDefaults(testFS(), "templates", dest, false)
	require.NoError(t, err)
	assert.Equal(t, StatusUnchanged, status["templates/document.md.tmpl"])

	modified := filepath.Join(dest, "document.md.tmpl")
	require.NoError(t, os.WriteFile(modified, []byte("mine"), 0o644))

	status, err = ExportDefaults(testFS(), "templates", dest, false)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status["templates/document.md.tmpl"])

	status, err = ExportDefaults(testFS(), "templates", dest, true)
	require.NoError(t, err)
	assert.Equal(t, StatusOverwritten, status["templates/document.md.tmpl"])
	backups, _ := filepath.Glob(modified + ".bak.*")
	assert.Len(t, backups, 1)
}

func TestExportDefaults_SingleFile(t *testing.T) {
	dest := t.TempDir()
	status, err := ExportDefaults(testFS(), "medialink.example.yaml", dest, false)
	require.NoError(t, err)
	assert.Equal(t, StatusWritten, status["medialink.example.yaml"])
	assert.FileExists(t, filepath.Join(dest, "medialink.example.yaml"))
}
