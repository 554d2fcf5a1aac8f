package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokerjest/movieAutoTool/internal/updater"
)

func TestParseOnly(t *testing.T) {
	set, err := parseOnly(nil)
	require.NoError(t, err)
	assert.Nil(t, set)

	set, err = parseOnly([]string{"rating", "production-year", " "})
	require.NoError(t, err)
	assert.Equal(t, updater.NewCategorySet(updater.CategoryRating, updater.CategoryProductionYear), set)

	_, err = parseOnly([]string{"trivia"})
	assert.Error(t, err)
}

func TestMovieCmd_Validation(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"movie", "abc"})
	root.SetOut(&bytes.Buffer{})
	assert.Error(t, root.Execute())

	root = newRootCmd()
	root.SetArgs([]string{"movie", "1", "--only", "trivia"})
	assert.Error(t, root.Execute())
}

func TestAllCmd_EmptyCatalog(t *testing.T) {
	dir := t.TempDir()
	cfg := "database:\n  path: " + filepath.Join(dir, "movies.db") + "\nupdater:\n  schedule: \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"all", "--config", dir, "--created-from", "2024-01-01"})
	require.NoError(t, root.Execute())
	assert.JSONEq(t, `{"total":0,"updated":0,"not_updated":0,"failed":0}`, out.String())
}
