package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memorybook/internal/http/middleware"
	"memorybook/internal/media"
	"memorybook/internal/model"
	"memorybook/internal/repository"
	"memorybook/internal/service"
	serviceMocks "memorybook/internal/service/mocks"
)

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func multipartRequest(t *testing.T, target, field, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newApp()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decodeError(t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Code)
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadMedia(t *testing.T) {
	t.Run("global photo", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Post("/upload", UploadMedia(mockSvc))

		res := &service.UploadResult{Path: "/static/uploads/photos/x.png", MediaType: model.MediaPhoto}
		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(r service.UploadRequest) bool {
			return r.Filename == "pic.png" && !r.Scope.Scoped() && r.Body != nil
		})).Return(res, nil).Once()

		resp, err := app.Test(multipartRequest(t, "/upload", "file", "pic.png", []byte("png")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "/static/uploads/photos/x.png", body["path"])
		assert.Nil(t, body["file_url"])
		assert.Equal(t, "photo", body["media_type"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("scoped upload passes both ids", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Post("/upload", UploadMedia(mockSvc))

		url := "/api/media/user_7/memory_3/photos/x.png"
		res := &service.UploadResult{Path: url, FileURL: &url, MediaType: model.MediaPhoto}
		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(r service.UploadRequest) bool {
			return r.Scope == media.Scope{UserID: 7, MemoryID: 3}
		})).Return(res, nil).Once()

		resp, err := app.Test(multipartRequest(t, "/upload?user_id=7&memory_id=3", "file", "pic.png", []byte("png")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, url, body["file_url"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("single id is global", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Post("/upload", UploadMedia(mockSvc))

		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(r service.UploadRequest) bool {
			return r.Scope == media.Scope{}
		})).Return(&service.UploadResult{MediaType: model.MediaPhoto}, nil).Once()

		resp, err := app.Test(multipartRequest(t, "/upload?user_id=7", "file", "pic.png", []byte("png")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	for _, target := range []string{"/upload?user_id=abc", "/upload?user_id=7&memory_id=0", "/upload?memory_id=-2"} {
		t.Run("invalid query "+target, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockMediaService)
			app := newApp()
			app.Post("/upload", UploadMedia(mockSvc))

			resp, err := app.Test(multipartRequest(t, target, "file", "pic.png", []byte("png")))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, "INVALID_QUERY", body.Code)
			assert.NotEmpty(t, body.Detail)
			mockSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Post("/upload", UploadMedia(mockSvc))

		resp, err := app.Test(multipartRequest(t, "/upload", "", "", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "NO_FILE", body.Code)
		assert.Equal(t, "no file provided", body.Error)
	})
}

func TestUploadMedia_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		detail bool
	}{
		{"invalid name", fmt.Errorf("%w: empty", media.ErrInvalidFilename), http.StatusBadRequest, "INVALID_FILENAME", true},
		{"unsupported", fmt.Errorf("%w: .exe", media.ErrUnsupportedType), http.StatusBadRequest, "UNSUPPORTED_TYPE", true},
		{"too long", fmt.Errorf("%w: 45.0s > 30.0s", media.ErrDurationExceeded), http.StatusBadRequest, "DURATION_EXCEEDED", true},
		{"unreadable", fmt.Errorf("%w: moov atom not found", media.ErrInvalidMedia), http.StatusBadRequest, "INVALID_MEDIA", true},
		{"memory", service.ErrMemoryNotFound, http.StatusNotFound, "MEMORY_NOT_FOUND", false},
		{"placement", fmt.Errorf("%w: disk full", media.ErrPlacementFailure), http.StatusInternalServerError, "PLACEMENT_FAILED", true},
		{"upload", fmt.Errorf("%w: db save failed", media.ErrUploadFailed), http.StatusInternalServerError, "UPLOAD_FAILED", true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockMediaService)
			app := newApp()
			app.Post("/upload", UploadMedia(mockSvc))
			mockSvc.On("Upload", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			resp, err := app.Test(multipartRequest(t, "/upload", "file", "clip.mp4", []byte("mp4")))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decodeError(t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
			if tt.detail {
				assert.Equal(t, tt.err.Error(), body.Detail)
			} else {
				assert.Empty(t, body.Detail)
			}
		})
	}
}

func TestServeMedia(t *testing.T) {
	t.Run("static photo", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Get("/static/uploads/:kind/:filename", ServeStatic(mockSvc))

		dest := media.Destination{MediaType: model.MediaPhoto, Filename: "a.png"}
		mockSvc.On("Open", mock.Anything, dest).Return(io.NopCloser(strings.NewReader("data")), int64(4), nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/static/uploads/photos/a.png", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "data", string(b))
	})

	t.Run("scoped video", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Get("/api/media/:user/:memory/:kind/:filename", ServeScoped(mockSvc))

		dest := media.Destination{Scope: media.Scope{UserID: 7, MemoryID: 3}, MediaType: model.MediaVideo, Filename: "c.mp4"}
		mockSvc.On("Open", mock.Anything, dest).Return(io.NopCloser(strings.NewReader("mp4")), int64(3), nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media/user_7/memory_3/videos/c.mp4", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockMediaService)
		app := newApp()
		app.Get("/static/uploads/:kind/:filename", ServeStatic(mockSvc))
		mockSvc.On("Open", mock.Anything, mock.Anything).Return(nil, int64(0), media.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/static/uploads/photos/gone.png", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
	})

	for _, target := range []string{
		"/api/media/user_x/memory_3/photos/a.png",
		"/api/media/user_7/memory_3/docs/a.png",
		"/api/media/user_7/memory_3/videos/a.png",
		"/api/media/user_7/memory_3/photos/a.exe",
	} {
		t.Run("rejects "+target, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockMediaService)
			app := newApp()
			app.Get("/api/media/:user/:memory/:kind/:filename", ServeScoped(mockSvc))

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			mockSvc.AssertNotCalled(t, "Open", mock.Anything, mock.Anything)
		})
	}
}

func TestListMedia(t *testing.T) {
	mockSvc := new(serviceMocks.MockMediaService)
	app := newApp()
	app.Get("/api/media", ListMedia(mockSvc))

	t.Run("success", func(t *testing.T) {
		uid := int64(7)
		expected := &service.MediaListResult{
			Items: []model.MediaFile{{ID: uuid.NewString(), Filename: "a.png", MediaType: model.MediaPhoto}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, repository.MediaFilter{UserID: &uid}, 5, 10).Return(expected, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media?user_id=7&limit=5&offset=10", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.MediaListResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	for _, target := range []string{"/api/media?limit=abc", "/api/media?offset=-1", "/api/media?limit=500", "/api/media?memory_id=x"} {
		t.Run("invalid "+target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_QUERY", decodeError(t, resp).Code)
		})
	}

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, repository.MediaFilter{}, 10, 0).Return(nil, errors.New("service error")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetMedia(t *testing.T) {
	mockSvc := new(serviceMocks.MockMediaService)
	app := newApp()
	app.Get("/api/media/:id", GetMedia(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		m := &model.MediaFile{ID: id, Filename: "a.png", MediaType: model.MediaPhoto, PublicPath: "/static/uploads/photos/a.png"}
		mockSvc.On("Get", mock.Anything, id).Return(m, nil).Once()
		mockSvc.On("DownloadURL", mock.Anything, m).Return("https://cdn.example/a.png?sig=1").Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, id, body["id"])
		assert.Equal(t, "/static/uploads/photos/a.png", body["path"])
		assert.Equal(t, "https://cdn.example/a.png?sig=1", body["download_url"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media/not-a-uuid", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Code)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(nil, media.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/media/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteMedia(t *testing.T) {
	mockSvc := new(serviceMocks.MockMediaService)
	app := newApp()
	app.Delete("/api/media/:id", DeleteMedia(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/media/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(media.ErrNotFound).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/media/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
	})

	t.Run("placement failure uses the error envelope", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(fmt.Errorf("%w: object store down", media.ErrPlacementFailure)).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/media/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "PLACEMENT_FAILED", body.Code)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("file removal fails", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(errors.New("delete file: permission denied")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/media/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestSearchTracks(t *testing.T) {
	mockSvc := new(serviceMocks.MockMusicService)
	app := newApp()
	app.Get("/api/spotify/search", SearchTracks(mockSvc))

	tracks := []model.Track{{ID: "1", Name: "Imagine", Artists: "John Lennon", ExternalURL: "https://open.spotify.com/track/1"}}

	t.Run("explicit limit", func(t *testing.T) {
		mockSvc.On("Search", mock.Anything, "imagine", 5).Return(tracks).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/spotify/search?q=imagine&limit=5", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body searchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tracks, body.Results)
	})

	t.Run("bad limit uses default", func(t *testing.T) {
		mockSvc.On("Search", mock.Anything, "imagine", service.DefaultSearchLimit).Return(tracks).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/spotify/search?q=imagine&limit=ten", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("empty result is an empty list", func(t *testing.T) {
		mockSvc.On("Search", mock.Anything, "", service.DefaultSearchLimit).Return([]model.Track{}).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/spotify/search", nil))
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"results":[]}`, string(b))
	})

	mockSvc.AssertExpectations(t)
}

func TestErrorHandler(t *testing.T) {
	app := newApp()
	app.Get("/too-big", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/nowhere", http.StatusNotFound, "NOT_FOUND"},
		{"/too-big", http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"/boom", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode, tt.target)
		body := decodeError(t, resp)
		assert.Equal(t, tt.code, body.Code, tt.target)
		assert.NotEmpty(t, body.RequestID)
	}
}

func TestRegisterRoutes(t *testing.T) {
	mediaSvc := new(serviceMocks.MockMediaService)
	musicSvc := new(serviceMocks.MockMusicService)
	app := newApp()
	RegisterRoutes(app, nil, mediaSvc, musicSvc)

	res := &service.UploadResult{Path: "/static/uploads/photos/x.png", MediaType: model.MediaPhoto}
	mediaSvc.On("Upload", mock.Anything, mock.Anything).Return(res, nil).Twice()

	for _, target := range []string{"/upload", "/api/media/upload"} {
		resp, err := app.Test(multipartRequest(t, target, "file", "pic.png", []byte("png")))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, target)
	}
	mediaSvc.AssertExpectations(t)
}
