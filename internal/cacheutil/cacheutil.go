// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/staranto/opskit/internal/log"
)

// Store is an on-disk cache of small artifacts under Base. Entries are named
// by the sha256 of their clear-text key. A disabled Store misses every read
// and drops every write.
type Store struct {
	Base    string
	Enabled bool
}

// Dir resolves the base cache directory.
// Precedence:
//  1. OPSKIT_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/opskit
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("OPSKIT_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "opskit"), true
	}
	return "", false
}

// Enabled returns true unless OPSKIT_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("OPSKIT_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// Open returns the Store described by the environment. The base directory is
// created when the store is enabled.
func Open(subdirs ...string) (*Store, error) {
	base, ok := Dir()
	if !ok || !Enabled() {
		log.Debug("cache disabled")
		return &Store{}, nil
	}
	base = filepath.Join(append([]string{base}, subdirs...)...)
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return &Store{Base: base}, fmt.Errorf("failed to create cache directory: %w", err)
	}
	log.Debugf("cache dir: path=%s", base)
	return &Store{Base: base, Enabled: true}, nil
}

// Path returns where key lives on disk.
func (s *Store) Path(key string) string {
	return filepath.Join(s.Base, encodeKey(key))
}

// Get returns the trimmed contents stored for key. Entries older than maxAge
// are misses; maxAge <= 0 accepts any age.
func (s *Store) Get(key string, maxAge time.Duration) ([]byte, bool) {
	if s == nil || !s.Enabled {
		return nil, false
	}
	p := s.Path(key)
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if maxAge > 0 && time.Since(info.ModTime()) > maxAge {
		log.Debugf("cache stale: key=%s", key)
		return nil, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", key)
	return bytes.TrimSpace(b), true
}

// Put stores data for key.
func (s *Store) Put(key string, data []byte) error {
	if s == nil || !s.Enabled {
		return nil
	}
	if err := os.WriteFile(s.Path(key), data, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", key)
	return nil
}

// Purge removes entries older than maxAge. maxAge <= 0 is a no-op.
func (s *Store) Purge(maxAge time.Duration) error {
	if s == nil || !s.Enabled || maxAge <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.Base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		if time.Since(info.ModTime()) > maxAge {
			p := filepath.Join(s.Base, e.Name())
			if err := os.Remove(p); err != nil {
				log.WithError(err).Warnf("failed to remove cache file %s", p)
				continue
			}
			log.Debugf("removed cache file %s", p)
		}
	}
	return nil
}

// encodeKey returns the hex sha256 of input.
func encodeKey(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}
