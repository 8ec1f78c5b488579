// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package envdefault

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Env maps configuration-key names to values. Presence and the empty string
// are distinct states.
type Env map[string]string

// FromOS snapshots the process environment.
func FromOS() Env {
	return FromPairs(os.Environ())
}

// FromPairs builds an Env from KEY=VALUE strings. Entries without "=" are
// treated as present with an empty value; entries with an empty key are
// skipped. Later duplicates win.
func FromPairs(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, p := range pairs {
		k, v, _ := strings.Cut(p, "=")
		if k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// Lookup returns the value of key and whether it is present.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

// Clone returns an independent copy. A nil Env clones to an empty one.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (e Env) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply writes the given keys (all keys when none are given) into the process
// environment. Keys absent from e are left alone.
func (e Env) Apply(keys ...string) error {
	if len(keys) == 0 {
		keys = e.Keys()
	}
	for _, k := range keys {
		v, ok := e[k]
		if !ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return nil
}

// Export writes POSIX shell export statements for the given keys (all keys
// when none are given) so the output can be eval'd by a calling shell. Keys
// absent from e produce no output.
func (e Env) Export(w io.Writer, keys ...string) error {
	if len(keys) == 0 {
		keys = e.Keys()
	}
	for _, k := range keys {
		v, ok := e[k]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "export %s=%s\n", k, ShellQuote(v)); err != nil {
			return err
		}
	}
	return nil
}

// ShellQuote single-quotes s for POSIX shells.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
