package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fleet-route-service/internal/domain"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
)

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrValidation):
		var verr *domain.ValidationError
		var terr *domain.TransitionError
		switch {
		case errors.As(err, &verr):
			return writeError(c, fiber.StatusBadRequest, verr.Error())
		case errors.As(err, &terr):
			return writeError(c, fiber.StatusBadRequest, terr.Error())
		}
		return writeError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object and rejects unknown fields.
func decodeJSON(c *fiber.Ctx, v any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func writeGrouped(c *fiber.Ctx, status int, group string, v any) error {
	reduced, err := sheriff.Marshal(&sheriff.Options{Groups: []string{group}}, v)
	if err != nil {
		log.Error().Err(err).Str("path", c.Path()).Msg("Failed to reduce response")
		return writeError(c, fiber.StatusInternalServerError, "internal server error")
	}
	return c.Status(status).JSON(reduced)
}
