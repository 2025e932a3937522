package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"memorybook/internal/media"
	"memorybook/internal/model"
	"memorybook/internal/repository"
	"memorybook/internal/service"
)

// UploadMedia accepts one multipart file and runs it through the upload pipeline.
//
// @Summary Upload a photo or video
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "media file"
// @Param user_id query int false "owner of the memory"
// @Param memory_id query int false "memory to attach the file to"
// @Success 200 {object} service.UploadResult
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/media/upload [post]
func UploadMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := parseScopeQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters", err.Error())
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "NO_FILE", "no file provided")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		req := service.UploadRequest{Filename: fh.Filename, Body: f}
		if q.UserID != nil && q.MemoryID != nil {
			req.Scope = media.Scope{UserID: *q.UserID, MemoryID: *q.MemoryID}
		}

		res, err := svc.Upload(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(res)
	}
}

// ServeStatic streams a globally placed file: /static/uploads/:kind/:filename.
func ServeStatic(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return streamFile(c, svc, media.Scope{})
	}
}

// ServeScoped streams a file placed for one memory:
// /api/media/:user/:memory/:kind/:filename with "user_<id>" and "memory_<id>" segments.
func ServeScoped(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := media.ParseScope(c.Params("user"), c.Params("memory"))
		if err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "media not found")
		}
		return streamFile(c, svc, scope)
	}
}

func streamFile(c *fiber.Ctx, svc service.MediaService, scope media.Scope) error {
	dest := media.Destination{
		Scope:     scope,
		MediaType: model.MediaTypeFromFolder(c.Params("kind")),
		Filename:  c.Params("filename"),
	}
	if dest.Validate() != nil || media.Classify(dest.Filename) != dest.MediaType {
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "media not found")
	}

	rc, size, err := svc.Open(c.UserContext(), dest)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Set(fiber.HeaderContentType, media.ContentType(dest.Filename))
	// fasthttp closes rc once the body has been written.
	return c.SendStream(rc, int(size))
}

// ListMedia lists media records, optionally narrowed to a user or memory.
//
// @Summary List media records
// @Tags media
// @Produce json
// @Param user_id query int false "filter by user"
// @Param memory_id query int false "filter by memory"
// @Param limit query int false "page size (default 10, max 100)"
// @Param offset query int false "records to skip"
// @Success 200 {object} service.MediaListResult
// @Failure 400 {object} errorPayload
// @Router /api/media [get]
func ListMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sq, err := parseScopeQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters", err.Error())
		}
		pq, err := parsePageQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters", err.Error())
		}

		f := repository.MediaFilter{UserID: sq.UserID, MemoryID: sq.MemoryID}
		res, err := svc.List(c.UserContext(), f, pq.Limit, pq.Offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// mediaResponse is a record plus a link the client can download it from.
type mediaResponse struct {
	*model.MediaFile
	DownloadURL string `json:"download_url"`
}

// GetMedia returns one record by id.
//
// @Summary Get a media record
// @Tags media
// @Produce json
// @Param id path string true "media id (uuid)"
// @Success 200 {object} mediaResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/media/{id} [get]
func GetMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		m, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(mediaResponse{MediaFile: m, DownloadURL: svc.DownloadURL(c.UserContext(), m)})
	}
}

// DeleteMedia removes the file and then its record.
//
// @Summary Delete a media record and its file
// @Tags media
// @Param id path string true "media id (uuid)"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/media/{id} [delete]
func DeleteMedia(svc service.MediaService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
