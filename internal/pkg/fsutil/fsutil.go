// Package fsutil holds small filesystem helpers shared by file-backed stores.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic replaces path with data so that readers observe either the
// old content or the new content, never a mix. The parent directory is created
// with dirPerm when missing. On failure the previous file is left untouched.
func WriteFileAtomic(path string, data []byte, perm, dirPerm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("fsutil: create dir for %s: %w", path, err)
	}

	pf, err := renameio.NewPendingFile(path, renameio.WithStaticPermissions(perm))
	if err != nil {
		return fmt.Errorf("fsutil: create temp for %s: %w", path, err)
	}
	//nolint:errcheck // no-op once the file is replaced
	defer pf.Cleanup()

	if _, err := pf.Write(data); err != nil {
		return fmt.Errorf("fsutil: write %s: %w", path, err)
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("fsutil: replace %s: %w", path, err)
	}

	return nil
}
