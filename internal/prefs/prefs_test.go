package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSetDelete(t *testing.T) {
	s := Open(t.TempDir())

	_, ok := s.Get(KeyLastCategory)
	assert.False(t, ok)

	require.NoError(t, s.Set(KeyLastCategory, " Outfits "))
	val, ok := s.Get(KeyLastCategory)
	require.True(t, ok)
	assert.Equal(t, "Outfits", val)

	require.NoError(t, s.Set(KeyLastCategory, ""))
	_, ok = s.Get(KeyLastCategory)
	assert.False(t, ok)

	assert.NoError(t, s.Delete("never-set"))
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Open(dir).Set(KeyLastExport, "/tmp/out"))

	val, ok := Open(dir).Get(KeyLastExport)
	require.True(t, ok)
	assert.Equal(t, "/tmp/out", val)
}

func TestTheme(t *testing.T) {
	s := Open(t.TempDir())
	assert.Equal(t, DefaultTheme, s.Theme())

	got, err := s.SetTheme("ember")
	require.NoError(t, err)
	assert.Equal(t, "ember", got)
	assert.Equal(t, "ember", s.Theme())

	got, err = s.SetTheme("neon")
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme, got)
	assert.Equal(t, DefaultTheme, s.Theme())
}

func TestNextThemeWraps(t *testing.T) {
	assert.Equal(t, "ocean", NextTheme(DefaultTheme))
	assert.Equal(t, DefaultTheme, NextTheme("dusk"))
	assert.Equal(t, DefaultTheme, NextTheme("unknown"))
}

func TestAll(t *testing.T) {
	s := Open(t.TempDir())
	require.NoError(t, s.Set(KeyTheme, "forest"))
	require.NoError(t, s.Set(KeyLastCategory, "Effects"))

	assert.Equal(t, map[string]string{
		KeyTheme:        "forest",
		KeyLastCategory: "Effects",
	}, s.All(context.Background()))
}

func TestDeleteReportsFailure(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, KeyLastCategory, "nested"), 0o755))

	assert.Error(t, s.Delete(KeyLastCategory))
	assert.NoError(t, s.Delete(KeyLastExport), "a missing key is not an error")
}
