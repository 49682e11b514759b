package deck

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

var (
	saveRetries = 3
	saveDelay   = 500 * time.Millisecond
	now         = time.Now
)

// SaveWithRetry calls save with the requested path and, while it fails
// with a lock or permission error, retries under timestamped sibling
// names. It returns the path that was written. The last error is returned
// once retries run out.
func SaveWithRetry(save func(path string) error, path string) (string, error) {
	err := save(path)
	if err == nil {
		return path, nil
	}

	for attempt := 1; attempt <= saveRetries && isLockError(err); attempt++ {
		fallback := fallbackPath(path, attempt)
		slog.Warn("Output locked, retrying under a new name",
			"path", path,
			"fallback", fallback,
			"attempt", attempt,
			"error", err)

		time.Sleep(saveDelay)
		if err = save(fallback); err == nil {
			return fallback, nil
		}
	}
	return "", err
}

// fallbackPath builds name-YYYYmmdd-HHMMSS.ext, adding -n from the second
// retry on.
func fallbackPath(path string, attempt int) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	stamp := now().Format("20060102-150405")
	if attempt > 1 {
		return fmt.Sprintf("%s-%s-%d%s", base, stamp, attempt, ext)
	}
	return fmt.Sprintf("%s-%s%s", base, stamp, ext)
}

func isLockError(err error) bool {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.ETXTBSY) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "being used by another process") || strings.Contains(msg, "locked")
}
