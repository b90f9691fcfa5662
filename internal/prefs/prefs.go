// Package prefs persists small user preferences between runs, one file per
// key under the assetgrip config directory.
package prefs

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Preference keys
const (
	KeyTheme        = "theme"
	KeyLastCategory = "last-category"
	KeyLastExport   = "last-export-dir"
)

// DefaultTheme is used when no valid theme is stored
const DefaultTheme = "default"

// Themes are the supported color themes
var Themes = []string{DefaultTheme, "ocean", "aurora", "ember", "forest", "dusk"}

// Store is a flat key/value store on disk
type Store struct {
	d *diskv.Diskv
}

// Open creates a store rooted at basePath. The directory is created on the
// first write.
func Open(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: flatTransform,
		InverseTransform:  inverseFlatTransform,
		CacheSizeMax:      64 * 1024,
	})}
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{Path: []string{}, FileName: key}
}

func inverseFlatTransform(pk *diskv.PathKey) string {
	return pk.FileName
}

// Get returns the value stored for key
func (s *Store) Get(key string) (string, bool) {
	val, err := s.d.Read(key)
	if err != nil {
		return "", false
	}
	return string(val), true
}

// Set stores value for key. An empty value removes the key.
func (s *Store) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.Delete(key)
	}
	return s.d.Write(key, []byte(value))
}

// Delete removes key; deleting a missing key is not an error
func (s *Store) Delete(key string) error {
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// All returns every stored preference
func (s *Store) All(ctx context.Context) map[string]string {
	out := make(map[string]string)
	for key := range s.d.Keys(ctx.Done()) {
		if val, ok := s.Get(key); ok {
			out[key] = val
		}
	}
	return out
}

// Theme returns the stored theme, falling back to DefaultTheme for unknown values
func (s *Store) Theme() string {
	stored, _ := s.Get(KeyTheme)
	return NormalizeTheme(stored)
}

// SetTheme stores a normalized theme and returns it
func (s *Store) SetTheme(theme string) (string, error) {
	theme = NormalizeTheme(theme)
	return theme, s.Set(KeyTheme, theme)
}

// NormalizeTheme maps unknown theme names to DefaultTheme
func NormalizeTheme(theme string) string {
	for _, t := range Themes {
		if t == theme {
			return t
		}
	}
	return DefaultTheme
}

// NextTheme returns the theme after current in Themes, wrapping around
func NextTheme(current string) string {
	for i, t := range Themes {
		if t == current {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return DefaultTheme
}
