// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diskusage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/staranto/opskit/internal/log"
	"github.com/staranto/opskit/internal/util"
)

// Measurer reports the total bytes stored under a folder.
type Measurer interface {
	Measure(ctx context.Context, root string) (int64, error)
}

// Walker is the in-process Measurer. It sums the apparent size of every
// regular file under the root. Symlinks are counted by their own size and
// never followed.
type Walker struct {
	// SkipUnreadable ignores subtrees that cannot be read instead of failing.
	SkipUnreadable bool
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to the root. A matching directory is skipped whole.
	Exclude []string
}

// Measure implements Measurer.
func (w Walker) Measure(ctx context.Context, root string) (int64, error) {
	dir, err := util.ResolveDir(root)
	if err != nil {
		return 0, fmt.Errorf("invalid folder %q: %w", root, err)
	}
	for _, p := range w.Exclude {
		if !doublestar.ValidatePattern(p) {
			return 0, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	var total int64
	var files int
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			// Entries that vanish mid-walk are not an error.
			if os.IsNotExist(walkErr) {
				return nil
			}
			if w.SkipUnreadable && path != dir {
				log.WithError(walkErr).Warnf("skipping %s", path)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return walkErr
		}

		if w.excluded(dir, path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.Mode().IsRegular() || info.Mode()&fs.ModeSymlink != 0 {
			total += info.Size()
			files++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to measure %s: %w", dir, err)
	}

	log.Debugf("measured: path=%s files=%d bytes=%d", dir, files, total)
	return total, nil
}

func (w Walker) excluded(root, path string) bool {
	if len(w.Exclude) == 0 || path == root {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range w.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
