package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SafePath returns a path that does not exist yet: the input unchanged when
// free, otherwise base_1..base_9, and past that a UUID suffix that cannot
// collide. The bool reports whether the path was renamed.
func SafePath(path string) (string, bool, error) {
	if path == "" {
		return "", false, fmt.Errorf("path is empty")
	}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return path, false, nil
	}
	if err != nil {
		return "", false, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	for i := 1; i <= 9; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, true, nil
		}
		if err != nil {
			return "", false, err
		}
	}

	suffix := ""
	if u, err := uuid.NewV7(); err == nil {
		suffix = u.String()
	} else {
		suffix = uuid.NewString()[:8]
	}
	return fmt.Sprintf("%s_%s%s", base, suffix, ext), true, nil
}
