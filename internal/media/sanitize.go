package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UnnamedFile replaces names that sanitize to nothing.
const UnnamedFile = "unnamed_file"

const forbiddenChars = `<>:"/\|?*`

// newShortID is swapped in tests.
var newShortID = func() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// SanitizeFilename returns a filesystem-safe version of raw. Invalid UTF-8, forbidden
// and control characters become "_", surrounding spaces and periods are trimmed, and
// an empty result becomes UnnamedFile.
func SanitizeFilename(raw string) string {
	s := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(forbiddenChars, r) {
			return '_'
		}
		return r
	}, strings.ToValidUTF8(raw, "_"))
	s = strings.Trim(s, " .")
	if s == "" {
		return UnnamedFile
	}
	return s
}

// Extension returns the lowercased text after the last ".", or "" when there is none.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// UniqueFilename derives "{YYYYMMDD_HHMMSS}_{8 hex chars}.{ext}" from name's extension.
// Names generated within the same second differ by their random suffix.
func UniqueFilename(name string, now time.Time) string {
	base := now.Format("20060102_150405") + "_" + newShortID()
	if ext := Extension(name); ext != "" {
		return base + "." + ext
	}
	return base
}

// ValidateFilename sanitizes raw and rejects names that are empty or have no extension.
func ValidateFilename(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty filename", ErrInvalidFilename)
	}
	name := SanitizeFilename(raw)
	if name == UnnamedFile || Extension(name) == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrInvalidFilename, raw)
	}
	return name, nil
}
