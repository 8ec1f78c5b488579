// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTemp opens an enabled store under a fresh OPSKIT_CACHE_DIR.
func openTemp(t *testing.T) *Store {
	t.Helper()
	t.Setenv("OPSKIT_CACHE_DIR", t.TempDir())
	t.Setenv("OPSKIT_CACHE", "")
	s, err := Open("test")
	require.NoError(t, err)
	require.True(t, s.Enabled)
	return s
}

// age backdates the entry for key.
func age(t *testing.T, s *Store, key string, d time.Duration) {
	t.Helper()
	old := time.Now().Add(-d)
	require.NoError(t, os.Chtimes(s.Path(key), old, old))
}

func TestDir_WithOPSKIT_CACHE_DIR(t *testing.T) {
	customDir := t.TempDir()
	t.Setenv("OPSKIT_CACHE_DIR", customDir)

	result, ok := Dir()

	assert.True(t, ok)
	assert.Equal(t, customDir, result)
}

func TestDir_WithEmptyOPSKIT_CACHE_DIR(t *testing.T) {
	t.Setenv("OPSKIT_CACHE_DIR", "")

	result, ok := Dir()

	// Depends on the host; when resolvable it ends in opskit.
	if ok {
		assert.Equal(t, "opskit", filepath.Base(result))
	}
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"yes", true},
		{"0", false},
		{"false", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("OPSKIT_CACHE", tt.value)
			assert.Equal(t, tt.expected, Enabled())
		})
	}
}

func TestOpen_CreatesSubdir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("OPSKIT_CACHE_DIR", base)
	t.Setenv("OPSKIT_CACHE", "")

	s, err := Open("instance", "v1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "instance", "v1"), s.Base)
	assert.DirExists(t, s.Base)
}

func TestOpen_Disabled(t *testing.T) {
	t.Setenv("OPSKIT_CACHE_DIR", t.TempDir())
	t.Setenv("OPSKIT_CACHE", "false")

	s, err := Open()
	require.NoError(t, err)
	assert.False(t, s.Enabled)

	require.NoError(t, s.Put("k", []byte("v")))
	_, ok := s.Get("k", 0)
	assert.False(t, ok)
}

func TestStore_PutGet(t *testing.T) {
	s := openTemp(t)

	require.NoError(t, s.Put("instance-id", []byte("  i-0abc123\n")))

	got, ok := s.Get("instance-id", time.Hour)
	assert.True(t, ok)
	assert.Equal(t, []byte("i-0abc123"), got)

	info, err := os.Stat(s.Path("instance-id"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_GetMiss(t *testing.T) {
	s := openTemp(t)
	_, ok := s.Get("missing", 0)
	assert.False(t, ok)
}

func TestStore_GetStale(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("k", []byte("v")))
	age(t, s, "k", 2*time.Hour)

	_, ok := s.Get("k", time.Hour)
	assert.False(t, ok)

	got, ok := s.Get("k", 0)
	assert.True(t, ok, "maxAge <= 0 accepts any age")
	assert.Equal(t, []byte("v"), got)
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	_, ok := s.Get("k", 0)
	assert.False(t, ok)
	assert.NoError(t, s.Put("k", nil))
	assert.NoError(t, s.Purge(time.Hour))
}

func TestStore_Purge(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("old", []byte("1")))
	require.NoError(t, s.Put("new", []byte("2")))
	age(t, s, "old", 48*time.Hour)

	require.NoError(t, s.Purge(24*time.Hour))

	assert.NoFileExists(t, s.Path("old"))
	assert.FileExists(t, s.Path("new"))
}

func TestStore_PurgeDisabledWithZero(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Put("old", []byte("1")))
	age(t, s, "old", 48*time.Hour)

	require.NoError(t, s.Purge(0))
	assert.FileExists(t, s.Path("old"))
}

func TestEncodeKey(t *testing.T) {
	a := encodeKey("instance-id")
	assert.Equal(t, a, encodeKey("instance-id"))
	assert.NotEqual(t, a, encodeKey("instance-id2"))
	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]+$", a)
}
