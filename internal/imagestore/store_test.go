package imagestore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("\xff\xd8\xff\xe0fake-jpeg"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "posters")
	s := New("movie-test", "")

	assert.False(t, s.Exists(dir, "tt0113277.jpg"))

	path, name, err := s.Download(context.Background(), srv.URL+"/heat.jpg", dir, "tt0113277.jpg")
	require.NoError(t, err)
	assert.Equal(t, "tt0113277.jpg", name)
	assert.Equal(t, filepath.Join(dir, "tt0113277.jpg"), path)
	assert.True(t, s.Exists(dir, "tt0113277.jpg"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fake-jpeg")

	_, _, err = s.Download(context.Background(), srv.URL+"/missing.jpg", dir, "other.jpg")
	assert.Error(t, err)
	assert.False(t, s.Exists(dir, "other.jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_NameCannotEscapeDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("img"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	s := New("", "")
	path, name, err := s.Download(context.Background(), srv.URL, filepath.Join(dir, "photos"), "../../evil.jpg")
	require.NoError(t, err)
	assert.Equal(t, "evil.jpg", name)
	assert.Equal(t, filepath.Join(dir, "photos", "evil.jpg"), path)

	_, _, err = s.Download(context.Background(), srv.URL, dir, "")
	assert.Error(t, err)
}
