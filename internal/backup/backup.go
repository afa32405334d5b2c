package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Descriptor names one backup file and when it was last written.
type Descriptor struct {
	Name    string
	ModTime time.Time
}

// Age returns whole seconds elapsed between the backup's modification time
// and now, truncated toward zero.
func (d Descriptor) Age(now time.Time) int64 {
	return int64(now.Sub(d.ModTime) / time.Second)
}

// newer reports whether d should be preferred over other. Equal
// modification times fall back to the lexicographically greater name so
// the result does not depend on directory listing order.
func (d Descriptor) newer(other Descriptor) bool {
	if !d.ModTime.Equal(other.ModTime) {
		return d.ModTime.After(other.ModTime)
	}
	return d.Name > other.Name
}

// Latest returns the most recently modified file in dir whose name ends
// with ext. Subdirectories are skipped and the scan is not recursive.
// Symlinks are followed: a linked backup ranks by its target's
// modification time, and dangling links are ignored.
//
// found is false when dir does not exist or holds no matching file; a
// missing directory is not an error.
func Latest(dir, ext string) (latest Descriptor, found bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Descriptor{}, false, nil
		}
		return Descriptor{}, false, fmt.Errorf("read backup dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Removed between listing and stat, or a dangling link
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Descriptor{}, false, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		if info.IsDir() {
			continue
		}
		d := Descriptor{Name: entry.Name(), ModTime: info.ModTime()}
		if !found || d.newer(latest) {
			latest, found = d, true
		}
	}

	return latest, found, nil
}
