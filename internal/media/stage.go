package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stage writes r to dir/name, failing if the name is already taken. It returns the
// staged path and the number of bytes written. Nothing is left behind on error.
func Stage(dir, name string, r io.Reader) (string, int64, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create temp dir: %w", err)
	}
	p := filepath.Join(dir, name)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create staged file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return "", 0, fmt.Errorf("write staged file: %w", err)
	}
	return p, n, nil
}
