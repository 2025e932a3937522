package media

import "memorybook/internal/model"

var (
	videoExtensions = map[string]struct{}{
		"mp4": {}, "mov": {}, "avi": {}, "webm": {}, "mkv": {}, "m4v": {},
	}
	photoExtensions = map[string]struct{}{
		"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {},
	}
)

// Classify maps a filename to photo, video or unsupported by its extension.
func Classify(filename string) model.MediaType {
	ext := Extension(filename)
	if ext == "" {
		return model.MediaUnsupported
	}
	if _, ok := videoExtensions[ext]; ok {
		return model.MediaVideo
	}
	if _, ok := photoExtensions[ext]; ok {
		return model.MediaPhoto
	}
	return model.MediaUnsupported
}
