package tracking

import (
	"errors"

	"backend-courseview/internal/event"
	"backend-courseview/internal/visit"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/events/:id/positions", func(c *fiber.Ctx) error {
		var req Sample
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		update, err := svc.RecordPosition(c.Context(), c.Params("id"), req)
		if err != nil {
			return eventError(err)
		}
		return c.JSON(update)
	})

	r.Post("/events/:id/replay", authMiddleware, func(c *fiber.Ctx) error {
		if len(c.Body()) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "gpx body required")
		}
		result, err := svc.Replay(c.Context(), c.Params("id"), c.Body())
		if err != nil {
			return eventError(err)
		}
		return c.JSON(result)
	})

	r.Get("/events/:id/visits", func(c *fiber.Ctx) error {
		return c.JSON(svc.Visits(c.Params("id")))
	})

	r.Put("/events/:id/threshold", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Meters float64 `json:"meters"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := svc.SetThreshold(c.Context(), c.Params("id"), body.Meters); err != nil {
			return eventError(err)
		}
		return c.JSON(svc.Visits(c.Params("id")))
	})

	r.Put("/events/:id/enabled", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Enabled *bool `json:"enabled"`
		}
		if err := c.BodyParser(&body); err != nil || body.Enabled == nil {
			return fiber.NewError(fiber.StatusBadRequest, "enabled required")
		}
		if err := svc.SetTrackingEnabled(c.Context(), c.Params("id"), *body.Enabled); err != nil {
			return eventError(err)
		}
		return c.JSON(svc.Visits(c.Params("id")))
	})

	r.Post("/events/:id/reset", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Confirm bool `json:"confirm"`
		}
		_ = c.BodyParser(&body)
		if err := svc.Reset(c.Context(), c.Params("id"), body.Confirm); err != nil {
			return eventError(err)
		}
		return c.JSON(svc.Visits(c.Params("id")))
	})
}

func eventError(err error) error {
	switch {
	case errors.Is(err, event.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrResetNotConfirmed):
		return fiber.NewError(fiber.StatusPreconditionRequired, err.Error())
	case errors.Is(err, visit.ErrInvalidThreshold), errors.As(err, new(*GPXError)):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
