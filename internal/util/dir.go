// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
)

// ResolveDir returns the absolute, cleaned form of dir. It returns an error if
// dir is empty, does not exist or is not a directory.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		return "", os.ErrInvalid
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	if r, err := os.Stat(abs); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return abs, nil
}
