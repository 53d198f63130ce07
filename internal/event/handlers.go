package event

import (
	"errors"

	"backend-courseview/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the event routes. onDelete, when set, runs after an
// event is removed so per-event state held elsewhere can be dropped.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler, onDelete func(eventID string)) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Event
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if officialID := auth.OfficialID(c); officialID != "" {
			req.CreatedBy = officialID
		}
		if err := req.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		ev, err := svc.CreateEvent(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(ev)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		events, err := svc.ListEvents(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(events)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		ev, err := svc.GetEvent(c.Context(), c.Params("id"))
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(ev)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("id")
		err := svc.DeleteEvent(c.Context(), id)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if onDelete != nil {
			onDelete(id)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Put("/:id/courses/:courseID/visibility", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Visible *bool `json:"visible"`
		}
		if err := c.BodyParser(&body); err != nil || body.Visible == nil {
			return fiber.NewError(fiber.StatusBadRequest, "visible required")
		}
		err := svc.SetCourseVisibility(c.Context(), c.Params("id"), c.Params("courseID"), *body.Visible)
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "course not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
