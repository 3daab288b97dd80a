package address

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the region cascade of the checkout form.
type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(s *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: s, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/address/provinces", h.getProvinces)
	app.Get("/api/v1/address/districts", h.getDistricts)
}

func (h *Handler) getProvinces(c *fiber.Ctx) error {
	opts, err := h.service.Provinces()
	if err != nil {
		h.log.Error("list provinces", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(opts)
}

func (h *Handler) getDistricts(c *fiber.Ctx) error {
	opts, err := h.service.Districts(c.Query("province"))
	if err != nil {
		if errors.Is(err, ErrUnknownProvince) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "province not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(opts)
}
