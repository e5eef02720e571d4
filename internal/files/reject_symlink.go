package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RejectSymlinkPath returns an error when the path or any existing parent
// component is a symlink. Output and log destinations go through this check
// before anything is written to them.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return rejectSymlinkComponents(abs)
}

// rejectSymlinkComponents walks the path one component at a time so a link
// anywhere in the chain is caught, not just at the leaf. Components that do
// not exist yet are fine.
func rejectSymlinkComponents(path string) error {
	volume := filepath.VolumeName(path)
	rest := strings.TrimLeft(path[len(volume):], string(os.PathSeparator))

	var current string
	if volume != "" {
		current = volume + string(os.PathSeparator)
	} else if filepath.IsAbs(path) {
		current = string(os.PathSeparator)
	}

	if rest == "" {
		return nil
	}

	for _, part := range strings.Split(rest, string(os.PathSeparator)) {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write to symlink path: %s (symlink detected at %s)", path, current)
		}
		if isReparse, err := isReparsePoint(current); err != nil {
			return fmt.Errorf("failed to check reparse point: %w", err)
		} else if isReparse {
			return fmt.Errorf("refusing to write to symlink path: %s (reparse point detected at %s)", path, current)
		}
	}
	return nil
}
