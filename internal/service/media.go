package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"memorybook/internal/logging"
	"memorybook/internal/media"
	"memorybook/internal/metrics"
	"memorybook/internal/model"
	"memorybook/internal/repository"
)

var (
	ErrIDRequired     = errors.New("id is required")
	ErrMemoryNotFound = errors.New("memory not found")
)

const presignExpiry = 15 * time.Minute

var tracer = otel.Tracer("memorybook/service")

// UploadRequest is one incoming file. Body nil means the request carried no file.
type UploadRequest struct {
	Filename string
	Body     io.Reader
	Scope    media.Scope
}

// UploadResult is the client-facing outcome of a stored upload.
type UploadResult struct {
	Path      string           `json:"path"`
	FileURL   *string          `json:"file_url"`
	MediaType model.MediaType  `json:"media_type"`
	Media     *model.MediaFile `json:"-"`
}

// MediaListResult is the service-level DTO for paginated media records.
type MediaListResult struct {
	Items []model.MediaFile `json:"data"`
	Total int               `json:"total"`
}

// MediaService defines the use cases for media files.
type MediaService interface {
	// Upload runs the ingestion pipeline: validate the name, classify, check the scope,
	// stage, validate video duration, place, and record. The staged file never outlives
	// the call. Failed recording removes the placed file.
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// Open streams a placed file.
	Open(ctx context.Context, dest media.Destination) (io.ReadCloser, int64, error)

	// List returns records using limit/offset and a total count.
	List(ctx context.Context, f repository.MediaFilter, limit, offset int) (*MediaListResult, error)

	// Get returns a single record by its ID.
	Get(ctx context.Context, id string) (*model.MediaFile, error)

	// DownloadURL returns a direct link for m: a presigned URL when the backend offers
	// one, else its public path.
	DownloadURL(ctx context.Context, m *model.MediaFile) string

	// Delete removes the placed file, then its record.
	Delete(ctx context.Context, id string) error
}

// MediaConfig carries the pipeline's tunables.
type MediaConfig struct {
	TempDir         string
	MaxVideoSeconds float64
	ProbeTimeout    time.Duration
}

// MediaDeps are the collaborators of the media service. Memories, Metrics and Logger
// are optional.
type MediaDeps struct {
	Placer   media.Placer
	Probe    media.DurationProbe
	Repo     repository.MediaRepository
	Memories repository.MemoryRepository
	Metrics  metrics.UploadRecorder
	Logger   *slog.Logger
}

type mediaService struct {
	cfg      MediaConfig
	placer   media.Placer
	probe    media.DurationProbe
	repo     repository.MediaRepository
	memories repository.MemoryRepository
	metrics  metrics.UploadRecorder
	log      *slog.Logger
	now      func() time.Time
}

// NewMediaService constructs a new MediaService.
func NewMediaService(cfg MediaConfig, deps MediaDeps) MediaService {
	s := &mediaService{
		cfg:      cfg,
		placer:   deps.Placer,
		probe:    deps.Probe,
		repo:     deps.Repo,
		memories: deps.Memories,
		metrics:  deps.Metrics,
		log:      deps.Logger,
		now:      time.Now,
	}
	if s.metrics == nil {
		s.metrics = metrics.Nop()
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	return s
}

// rejected reports whether err is the client's fault rather than ours.
func rejected(err error) bool {
	for _, target := range []error{
		media.ErrNoFileProvided,
		media.ErrInvalidFilename,
		media.ErrUnsupportedType,
		media.ErrDurationExceeded,
		media.ErrInvalidMedia,
		ErrMemoryNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *mediaService) Upload(ctx context.Context, req UploadRequest) (res *UploadResult, err error) {
	ctx, span := tracer.Start(ctx, "media.Upload")
	defer span.End()

	start := time.Now()
	kind := model.MediaUnsupported
	defer func() {
		span.SetAttributes(attribute.String("media.type", string(kind)))
		switch {
		case err == nil:
			s.metrics.Upload(string(kind), metrics.OutcomeStored)
		case rejected(err):
			s.metrics.Upload(string(kind), metrics.OutcomeRejected)
			s.log.WarnContext(ctx, "media_upload_rejected",
				"filename", req.Filename,
				"media_type", string(kind),
				"error", err.Error(),
			)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.metrics.Upload(string(kind), metrics.OutcomeFailed)
			s.log.ErrorContext(ctx, "media_upload_failed",
				"filename", req.Filename,
				"media_type", string(kind),
				"error", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}()

	if req.Body == nil {
		return nil, media.ErrNoFileProvided
	}

	name, err := media.ValidateFilename(req.Filename)
	if err != nil {
		return nil, err
	}

	kind = media.Classify(name)
	if kind == model.MediaUnsupported {
		return nil, fmt.Errorf("%w: .%s", media.ErrUnsupportedType, media.Extension(name))
	}

	scope := req.Scope
	if !scope.Scoped() {
		scope = media.Scope{}
	}
	if scope.Scoped() && s.memories != nil {
		ok, err := s.memories.Owns(ctx, scope.MemoryID, scope.UserID)
		if err != nil {
			return nil, fmt.Errorf("%w: memory lookup: %v", media.ErrUploadFailed, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: memory %d of user %d", ErrMemoryNotFound, scope.MemoryID, scope.UserID)
		}
	}

	final := media.UniqueFilename(name, s.now())
	staged, size, err := media.Stage(s.cfg.TempDir, final, req.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrUploadFailed, err)
	}
	defer s.discardStaged(ctx, staged)

	var duration *float64
	if kind == model.MediaVideo {
		d, err := media.ValidateDuration(ctx, s.probe, staged, s.cfg.MaxVideoSeconds, s.cfg.ProbeTimeout)
		if d > 0 {
			s.metrics.VideoDuration(d)
		}
		if err != nil {
			return nil, err
		}
		duration = &d
	}

	dest := media.Destination{Scope: scope, MediaType: kind, Filename: final}
	if err := s.placer.Place(ctx, staged, dest); err != nil {
		if !errors.Is(err, media.ErrPlacementFailure) {
			err = fmt.Errorf("%w: %v", media.ErrPlacementFailure, err)
		}
		return nil, err
	}

	publicURL := media.PublicURL(kind, final, scope)
	rec := &model.MediaFile{
		ID:           uuid.NewString(),
		Filename:     final,
		OriginalName: name,
		MediaType:    kind,
		StorageKey:   dest.Key(),
		PublicPath:   publicURL,
		Size:         size,
		DurationSec:  duration,
		CreatedAt:    s.now().UTC(),
	}
	if scope.Scoped() {
		uid, mid := scope.UserID, scope.MemoryID
		rec.UserID, rec.MemoryID = &uid, &mid
	}

	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		if rmErr := s.placer.Remove(ctx, dest); rmErr != nil {
			return nil, fmt.Errorf("%w: db save failed: %v; rollback delete failed: %v", media.ErrUploadFailed, err, rmErr)
		}
		return nil, fmt.Errorf("%w: db save failed: %v", media.ErrUploadFailed, err)
	}

	s.log.InfoContext(ctx, "media_upload_stored",
		"media_id", stored.ID,
		"filename", final,
		"media_type", string(kind),
		"size", size,
		"scoped", scope.Scoped(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	res = &UploadResult{Path: publicURL, MediaType: kind, Media: stored}
	if scope.Scoped() {
		res.FileURL = &publicURL
	}
	return res, nil
}

// discardStaged removes the staged file if placement has not already moved it.
func (s *mediaService) discardStaged(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.log.WarnContext(ctx, "staged_file_cleanup_failed", "path", path, "error", err.Error())
	}
}

func (s *mediaService) Open(ctx context.Context, dest media.Destination) (io.ReadCloser, int64, error) {
	return s.placer.Open(ctx, dest)
}

// List returns paginated records without exposing repository types.
func (s *mediaService) List(ctx context.Context, f repository.MediaFilter, limit, offset int) (*MediaListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &MediaListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *mediaService) Get(ctx context.Context, id string) (*model.MediaFile, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, media.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *mediaService) DownloadURL(ctx context.Context, m *model.MediaFile) string {
	p, ok := s.placer.(media.Presigner)
	if !ok {
		return m.PublicPath
	}
	u, err := p.PresignedURL(ctx, destinationOf(m), presignExpiry)
	if err != nil {
		s.log.WarnContext(ctx, "presign_failed", "media_id", m.ID, "error", err.Error())
		return m.PublicPath
	}
	return u
}

// Delete removes the file first; if that fails the record is kept so the file is
// still reachable for another attempt.
func (s *mediaService) Delete(ctx context.Context, id string) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.placer.Remove(ctx, destinationOf(m)); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func destinationOf(m *model.MediaFile) media.Destination {
	d := media.Destination{MediaType: m.MediaType, Filename: m.Filename}
	if m.Scoped() {
		d.Scope = media.Scope{UserID: *m.UserID, MemoryID: *m.MemoryID}
	}
	return d
}
