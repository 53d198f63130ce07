package maps

import (
	"errors"

	"backend-courseview/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	// the world file may be sent parsed or as the raw six-line text
	r.Put("/:eventID", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			BaseMap
			WorldFileText string `json:"world_file_text"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		m := body.BaseMap
		if body.WorldFileText != "" {
			wf, err := ParseWorldFile(body.WorldFileText)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			m.WorldFile = wf
		}
		m.EventID = c.Params("eventID")
		m.UpdatedBy = auth.OfficialID(c)
		if err := m.Validate(); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		saved, err := svc.SaveMap(c.Context(), m)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(saved)
	})

	r.Get("/:eventID", func(c *fiber.Ctx) error {
		m, err := svc.GetMap(c.Context(), c.Params("eventID"))
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(m)
	})
}
