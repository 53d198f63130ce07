package overlay

import (
	"errors"
	"strconv"

	"backend-courseview/internal/course"
	"backend-courseview/internal/event"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts GET /:id/overlay on the events group.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id/overlay", func(c *fiber.Ctx) error {
		zoom, err := strconv.ParseFloat(c.Query("zoom"), 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "zoom must be a number")
		}

		var latitude *float64
		if raw := c.Query("lat"); raw != "" {
			lat, err := strconv.ParseFloat(raw, 64)
			if err != nil || lat < -90 || lat > 90 {
				return fiber.NewError(fiber.StatusBadRequest, "lat must be between -90 and 90")
			}
			latitude = &lat
		}

		out, err := svc.Overlay(c.Context(), c.Params("id"), c.Query("course"), zoom, latitude)
		switch {
		case errors.Is(err, event.ErrNotFound), errors.Is(err, ErrCourseNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, course.ErrUnsupportedProjection):
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if c.Query("format") == "geojson" {
			c.Set(fiber.HeaderContentType, "application/geo+json")
			body, err := EncodeGeoJSON(out).MarshalJSON()
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return c.Send(body)
		}
		return c.JSON(out)
	})
}
