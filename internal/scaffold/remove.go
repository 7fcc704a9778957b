package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/shinji-kodama/dc-scaffold/internal/model"
)

// RemoveServiceDirectories stops the stack and deletes the frontend and
// backend checkouts.
//
// The stop is attempted first so containers release their bind mounts; its
// failure is logged and ignored. A missing directory is skipped. A failed
// deletion returns an environment error wrapping model.ErrRemoveFailed and
// leaves the second directory untouched.
func (o *Orchestrator) RemoveServiceDirectories(ctx context.Context) error {
	if err := o.Stop(ctx); err != nil {
		o.log.Warn("could not stop the stack before removing directories", "err", err)
	}

	for _, path := range []string{o.cfg.FrontendPath(), o.cfg.BackendPath()} {
		if o.dryRun {
			o.dryRunRemove(path)
			continue
		}

		err := removeTree(path)
		switch {
		case err == nil:
			o.log.Info("removed directory", "path", path)
		case errors.Is(err, fs.ErrNotExist):
			o.log.Info("No folder to delete.", "path", path)
		default:
			return model.NewEnvironmentError(
				fmt.Sprintf("cannot remove %s", path),
				errors.Join(model.ErrRemoveFailed, err),
			)
		}
	}
	return nil
}

// dryRunRemove logs what RemoveServiceDirectories would do with path.
func (o *Orchestrator) dryRunRemove(path string) {
	if _, err := os.Lstat(path); err != nil {
		o.log.Info("No folder to delete.", "path", path)
		return
	}
	o.log.Info("would remove directory", "path", path)
}

// removeTree deletes path recursively. When the first attempt fails,
// typically on read-only files, owner write permission is added across the
// tree and the removal is retried once. A missing path returns an error
// matching fs.ErrNotExist.
func removeTree(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	if err := os.RemoveAll(path); err == nil {
		return nil
	}

	if err := makeWritable(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

// makeWritable grants the owner write access to every file and full
// access to every directory under root. Symlinks are not followed.
func makeWritable(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are left for the retry to report.
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		mode := info.Mode().Perm()
		if d.IsDir() {
			mode |= 0o700
		} else {
			mode |= 0o200
		}
		if mode == info.Mode().Perm() {
			return nil
		}
		return os.Chmod(p, mode)
	})
}
