package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorybook/internal/model"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "/static/uploads/photos/a.png", PublicURL(model.MediaPhoto, "a.png", Scope{}))
	assert.Equal(t, "/static/uploads/videos/a.mp4", PublicURL(model.MediaVideo, "a.mp4", Scope{MemoryID: 4}))
	assert.Equal(t,
		"/api/media/user_7/memory_3/photos/20240517_140309_ab12cd34.png",
		PublicURL(model.MediaPhoto, "20240517_140309_ab12cd34.png", Scope{UserID: 7, MemoryID: 3}),
	)
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("user_7", "memory_3")
	require.NoError(t, err)
	assert.Equal(t, Scope{UserID: 7, MemoryID: 3}, s)

	bad := [][2]string{
		{"7", "memory_3"},
		{"user_7", "3"},
		{"user_0", "memory_3"},
		{"user_-1", "memory_3"},
		{"user_x", "memory_3"},
		{"user_7", "memory_"},
	}
	for _, b := range bad {
		_, err := ParseScope(b[0], b[1])
		assert.Error(t, err, "%v", b)
	}
}

func TestPublicURL_RoundTripsThroughParseScope(t *testing.T) {
	want := Scope{UserID: 12, MemoryID: 99}
	u := PublicURL(model.MediaVideo, "v.mp4", want)
	assert.Equal(t, "/api/media/user_12/memory_99/videos/v.mp4", u)

	got, err := ParseScope("user_12", "memory_99")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
