package category

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Counter reports how many products each category key holds.
type Counter func() (map[string]int, error)

type Handler struct {
	service *Service
	counts  Counter
	log     *zap.Logger
}

func NewHandler(s *Service, counts Counter, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{service: s, counts: counts, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/product/category", h.getCategories)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	h.log.Debug("getCategories called")
	limit := 100
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 {
			limit = v
		}
	}
	var counts map[string]int
	if h.counts != nil {
		var err error
		if counts, err = h.counts(); err != nil {
			h.log.Warn("category counts unavailable", zap.Error(err))
			counts = nil
		}
	}
	items := h.service.Menu(c.Query("filter", All), counts)
	if limit < len(items) {
		items = items[:limit]
	}
	return c.JSON(items)
}
