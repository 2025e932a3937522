package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"memorybook/internal/logging"
	"memorybook/internal/storage"
)

// Placer moves a validated, staged file into its permanent location and serves it back.
type Placer interface {
	// Place relocates the staged file to dest. On success the staged file no longer
	// needs cleaning up, although a failed source removal may leave it behind.
	Place(ctx context.Context, stagedPath string, dest Destination) error
	// Open streams a placed file. It returns ErrNotFound when dest does not exist.
	Open(ctx context.Context, dest Destination) (io.ReadCloser, int64, error)
	// Remove deletes a placed file. Removing a missing file is not an error.
	Remove(ctx context.Context, dest Destination) error
}

// FilePlacer places files on the local filesystem under the roots of a PathBuilder.
// It renames atomically and falls back to copy-then-delete when the staging area and
// the destination are on different devices.
type FilePlacer struct {
	paths  PathBuilder
	log    *slog.Logger
	rename func(oldpath, newpath string) error
}

// NewFilePlacer returns a FilePlacer. A nil logger discards output.
func NewFilePlacer(paths PathBuilder, log *slog.Logger) *FilePlacer {
	if log == nil {
		log = logging.Nop()
	}
	return &FilePlacer{paths: paths, log: log, rename: os.Rename}
}

var _ Placer = (*FilePlacer)(nil)

func (p *FilePlacer) Place(_ context.Context, stagedPath string, dest Destination) error {
	if err := dest.Validate(); err != nil {
		return err
	}
	dir, err := p.paths.Dir(dest.Scope, dest.MediaType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlacementFailure, err)
	}
	final := filepath.Join(dir, dest.Filename)

	err = p.rename(stagedPath, final)
	if err == nil {
		return nil
	}
	if !crossDevice(err) {
		return fmt.Errorf("%w: %v", ErrPlacementFailure, err)
	}

	if err := copyFile(stagedPath, final); err != nil {
		return fmt.Errorf("%w: %v", ErrPlacementFailure, err)
	}
	if err := os.Remove(stagedPath); err != nil {
		p.log.Warn("staged_file_cleanup_failed", "path", stagedPath, "error", err.Error())
	}
	return nil
}

func (p *FilePlacer) Open(_ context.Context, dest Destination) (io.ReadCloser, int64, error) {
	if err := dest.Validate(); err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p.paths.Path(dest))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	if st.IsDir() {
		f.Close()
		return nil, 0, ErrNotFound
	}
	return f, st.Size(), nil
}

func (p *FilePlacer) Remove(_ context.Context, dest Destination) error {
	if err := dest.Validate(); err != nil {
		return err
	}
	err := os.Remove(p.paths.Path(dest))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// crossDevice reports whether a rename failed only because source and destination
// live on different filesystems, where rename cannot be atomic.
func crossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// copyFile copies src to dst through a temporary sibling of dst, verifies the byte
// count against src and renames the sibling into place.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return err
	}

	part := dst + ".part"
	out, err := os.OpenFile(part, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(part)
		}
	}()

	n, err := io.Copy(out, in)
	if err == nil {
		err = out.Sync()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if n != st.Size() {
		return fmt.Errorf("copied %d of %d bytes", n, st.Size())
	}
	return os.Rename(part, dst)
}

// ObjectPlacer places files in S3-compatible object storage under Destination.Key.
type ObjectPlacer struct {
	store storage.Storage
	log   *slog.Logger
}

// NewObjectPlacer returns an ObjectPlacer. A nil logger discards output.
func NewObjectPlacer(store storage.Storage, log *slog.Logger) *ObjectPlacer {
	if log == nil {
		log = logging.Nop()
	}
	return &ObjectPlacer{store: store, log: log}
}

var _ Placer = (*ObjectPlacer)(nil)

func (p *ObjectPlacer) Place(ctx context.Context, stagedPath string, dest Destination) error {
	if err := dest.Validate(); err != nil {
		return err
	}
	f, err := os.Open(stagedPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlacementFailure, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrPlacementFailure, err)
	}

	_, err = p.store.Put(ctx, dest.Key(), f, storage.PutObjectOptions{
		Size:        st.Size(),
		ContentType: ContentType(dest.Filename),
		Metadata: map[string]string{
			"media-type": string(dest.MediaType),
		},
	})
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlacementFailure, err)
	}

	if err := os.Remove(stagedPath); err != nil {
		p.log.Warn("staged_file_cleanup_failed", "path", stagedPath, "error", err.Error())
	}
	return nil
}

func (p *ObjectPlacer) Open(ctx context.Context, dest Destination) (io.ReadCloser, int64, error) {
	if err := dest.Validate(); err != nil {
		return nil, 0, err
	}
	rc, info, err := p.store.Get(ctx, dest.Key())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return rc, info.Size, nil
}

func (p *ObjectPlacer) Remove(ctx context.Context, dest Destination) error {
	if err := dest.Validate(); err != nil {
		return err
	}
	return p.store.Delete(ctx, dest.Key())
}

// ContentType guesses a MIME type from the filename extension.
func ContentType(filename string) string {
	if ext := Extension(filename); ext != "" {
		if ct := mime.TypeByExtension("." + ext); ct != "" {
			return ct
		}
	}
	return "application/octet-stream"
}

// Presigner is implemented by placers that can hand out direct, time-limited download links.
type Presigner interface {
	PresignedURL(ctx context.Context, dest Destination, expiry time.Duration) (string, error)
}

var _ Presigner = (*ObjectPlacer)(nil)

func (p *ObjectPlacer) PresignedURL(ctx context.Context, dest Destination, expiry time.Duration) (string, error) {
	if err := dest.Validate(); err != nil {
		return "", err
	}
	return p.store.PresignGet(ctx, dest.Key(), expiry)
}
