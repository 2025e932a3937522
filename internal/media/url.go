package media

import (
	"fmt"
	"strconv"
	"strings"

	"memorybook/internal/model"
)

// PublicURL returns the path a client uses to fetch a placed file:
// "/static/uploads/{photos|videos}/<name>" globally, or
// "/api/media/user_<uid>/memory_<mid>/{photos|videos}/<name>" for a scoped upload.
func PublicURL(t model.MediaType, filename string, s Scope) string {
	if s.Scoped() {
		return fmt.Sprintf("/api/media/user_%d/memory_%d/%s/%s", s.UserID, s.MemoryID, t.Folder(), filename)
	}
	return fmt.Sprintf("/static/uploads/%s/%s", t.Folder(), filename)
}

// ParseScope reads the "user_<id>" and "memory_<id>" path segments of a scoped URL.
func ParseScope(userSeg, memorySeg string) (Scope, error) {
	uid, err := parsePrefixedID(userSeg, "user_")
	if err != nil {
		return Scope{}, err
	}
	mid, err := parsePrefixedID(memorySeg, "memory_")
	if err != nil {
		return Scope{}, err
	}
	return Scope{UserID: uid, MemoryID: mid}, nil
}

func parsePrefixedID(seg, prefix string) (int64, error) {
	raw, ok := strings.CutPrefix(seg, prefix)
	if !ok {
		return 0, fmt.Errorf("segment %q: missing %q prefix", seg, prefix)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("segment %q: invalid id", seg)
	}
	return id, nil
}
