package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"memorybook/internal/model"
	"memorybook/internal/service"
)

type searchResponse struct {
	Results []model.Track `json:"results"`
}

// SearchTracks looks up songs for the memory form. A missing or malformed limit
// falls back to the default; provider trouble yields an empty list.
//
// @Summary Search tracks
// @Tags music
// @Produce json
// @Param q query string true "free text, at least two characters"
// @Param limit query int false "results to return (1-50, default 10)"
// @Success 200 {object} searchResponse
// @Router /api/spotify/search [get]
func SearchTracks(svc service.MusicService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit"))
		if err != nil {
			limit = service.DefaultSearchLimit
		}
		return c.JSON(searchResponse{Results: svc.Search(c.UserContext(), c.Query("q"), limit)})
	}
}
