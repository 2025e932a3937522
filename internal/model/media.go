package model

import "time"

// MediaType is the category an uploaded file is classified into.
type MediaType string

const (
	MediaPhoto       MediaType = "photo"
	MediaVideo       MediaType = "video"
	MediaUnsupported MediaType = "unsupported"
)

// Folder returns the directory name used for this media type ("photos" or "videos").
func (t MediaType) Folder() string {
	switch t {
	case MediaPhoto:
		return "photos"
	case MediaVideo:
		return "videos"
	default:
		return ""
	}
}

// MediaTypeFromFolder is the inverse of Folder.
func MediaTypeFromFolder(folder string) MediaType {
	switch folder {
	case "photos":
		return MediaPhoto
	case "videos":
		return MediaVideo
	default:
		return MediaUnsupported
	}
}

// MediaFile records a validated file that was placed in its final location.
// UserID and MemoryID are both set for scoped uploads and both nil for global ones.
type MediaFile struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MediaType    MediaType `json:"media_type"`
	StorageKey   string    `json:"storage_key"`
	PublicPath   string    `json:"path"`
	UserID       *int64    `json:"user_id,omitempty"`
	MemoryID     *int64    `json:"memory_id,omitempty"`
	Size         int64     `json:"size"`
	DurationSec  *float64  `json:"duration_sec,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Scoped reports whether the file belongs to a user's memory.
func (m *MediaFile) Scoped() bool {
	return m.UserID != nil && m.MemoryID != nil
}
