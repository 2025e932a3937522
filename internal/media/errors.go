package media

import "errors"

// Pipeline error kinds. Stages wrap them with detail using fmt.Errorf("%w: ...").
var (
	ErrNoFileProvided   = errors.New("no file provided")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrDurationExceeded = errors.New("video exceeds the maximum duration")
	ErrInvalidMedia     = errors.New("unable to read video duration")
	ErrPlacementFailure = errors.New("failed to place file")
	ErrUploadFailed     = errors.New("upload failed")
	ErrNotFound         = errors.New("media not found")
)
