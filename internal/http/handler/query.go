package handler

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// scopeQuery is the optional user/memory pair accepted by upload and list.
type scopeQuery struct {
	UserID   *int64 `validate:"omitempty,gt=0"`
	MemoryID *int64 `validate:"omitempty,gt=0"`
}

type pageQuery struct {
	Limit  int `validate:"gte=0,lte=100"`
	Offset int `validate:"gte=0"`
}

// optionalInt64 reads key from the query string. Absent or empty yields nil.
func optionalInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

func parseScopeQuery(c *fiber.Ctx) (scopeQuery, error) {
	var q scopeQuery
	var err error
	if q.UserID, err = optionalInt64(c, "user_id"); err != nil {
		return q, err
	}
	if q.MemoryID, err = optionalInt64(c, "memory_id"); err != nil {
		return q, err
	}
	if err := validate.Struct(q); err != nil {
		return q, fmt.Errorf("user_id and memory_id must be positive integers")
	}
	return q, nil
}

func parsePageQuery(c *fiber.Ctx) (pageQuery, error) {
	q := pageQuery{Limit: 10}
	var err error
	if q.Limit, err = strconv.Atoi(c.Query("limit", "10")); err != nil {
		return q, fmt.Errorf("limit must be an integer")
	}
	if q.Offset, err = strconv.Atoi(c.Query("offset", "0")); err != nil {
		return q, fmt.Errorf("offset must be an integer")
	}
	if err := validate.Struct(q); err != nil {
		return q, fmt.Errorf("limit must be within 0..100 and offset non-negative")
	}
	return q, nil
}
