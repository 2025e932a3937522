package media

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"memorybook/internal/model"
)

// Scope ties an upload to a user's memory. The zero value means the global bucket.
type Scope struct {
	UserID   int64
	MemoryID int64
}

// Scoped reports whether both ids are present.
func (s Scope) Scoped() bool {
	return s.UserID > 0 && s.MemoryID > 0
}

// Destination identifies a placed file independently of the storage backend.
type Destination struct {
	Scope     Scope
	MediaType model.MediaType
	Filename  string
}

// Validate rejects destinations that could escape their directory.
func (d Destination) Validate() error {
	if d.MediaType.Folder() == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, d.MediaType)
	}
	if d.Filename == "" || d.Filename != SanitizeFilename(d.Filename) {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, d.Filename)
	}
	return nil
}

// Key is the slash-separated location of the file relative to its root:
// "uploads/{photos|videos}/<name>" or "users/<uid>/memories/<mid>/{photos|videos}/<name>".
func (d Destination) Key() string {
	return path.Join(scopeDir(d.Scope), d.MediaType.Folder(), d.Filename)
}

func scopeDir(s Scope) string {
	if s.Scoped() {
		return path.Join("users", strconv.FormatInt(s.UserID, 10), "memories", strconv.FormatInt(s.MemoryID, 10))
	}
	return "uploads"
}

// PathBuilder computes and creates destination directories on the local filesystem.
// Global uploads live under StaticRoot, scoped uploads under DataDir.
type PathBuilder struct {
	StaticRoot string
	DataDir    string
}

func (b PathBuilder) root(s Scope) string {
	if s.Scoped() {
		return b.DataDir
	}
	return b.StaticRoot
}

// Dir returns the directory for media type t within scope s, creating it if needed.
// For a scoped destination both the photos and videos directories are created.
// Safe to call repeatedly and concurrently.
func (b PathBuilder) Dir(s Scope, t model.MediaType) (string, error) {
	folder := t.Folder()
	if folder == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, t)
	}
	base := filepath.Join(b.root(s), filepath.FromSlash(scopeDir(s)))
	if s.Scoped() {
		for _, f := range []string{model.MediaPhoto.Folder(), model.MediaVideo.Folder()} {
			if err := os.MkdirAll(filepath.Join(base, f), 0o755); err != nil {
				return "", fmt.Errorf("create %s dir: %w", f, err)
			}
		}
		return filepath.Join(base, folder), nil
	}
	dir := filepath.Join(base, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s dir: %w", folder, err)
	}
	return dir, nil
}

// Path returns the absolute-or-relative filesystem path of d without touching the disk.
func (b PathBuilder) Path(d Destination) string {
	return filepath.Join(b.root(d.Scope), filepath.FromSlash(d.Key()))
}
