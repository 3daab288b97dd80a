package catalog

import (
	"errors"
	"net/url"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/category"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/session"
)

type Handler struct {
	repo   Repository
	menu   *category.Service
	opener *cart.Opener
	log    *zap.Logger
}

func NewHandler(repo Repository, menu *category.Service, opener *cart.Opener, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{repo: repo, menu: menu, opener: opener, log: log}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	// dev-only, enabled when ALLOW_RESET_PRODUCTS=1
	app.Post("/dev/reset-products", h.resetProducts)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.getListing)
	app.Post("/api/v1/products/events", h.postEvent)
}

// open builds the listing of the calling shopper from the request URL.
func (h *Handler) open(c *fiber.Ctx) (*Listing, func(), error) {
	shopperID, err := session.ShopperFromCtx(c)
	if err != nil {
		return nil, nil, err
	}
	products, err := h.repo.List()
	if err != nil {
		return nil, nil, err
	}
	store, err := h.opener.Open(session.SlotKey(shopperID))
	if err != nil {
		return nil, nil, err
	}
	q, _ := url.ParseQuery(string(c.Request().URI().QueryString()))
	return NewListing(products, store, h.menu, StateFromQuery(q), h.log), store.Close, nil
}

func (h *Handler) getListing(c *fiber.Ctx) error {
	l, done, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}
	defer done()
	return c.JSON(l.View())
}

func (h *Handler) postEvent(c *fiber.Ctx) error {
	var ev Event
	if err := c.BodyParser(&ev); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	l, done, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}
	defer done()
	if err := l.Dispatch(ev); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(l.View())
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrNoShopper):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	case errors.Is(err, cart.ErrNotInCart):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrPriceRange), errors.Is(err, ErrUnknownEvent):
		return c.Status(fiber.StatusBadRequest).JSON(feedback.Body(err))
	}
	h.log.Error("listing request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
}

func validateProductPayload(p Product) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["productName"] = "productName is required"
	}
	if p.Price < 0 {
		errs["productPrice"] = "productPrice must be >= 0"
	}
	return errs
}

// resetProducts replaces the catalog with the posted list, or with
// DefaultProducts when the body is not a product array.
// This endpoint is protected by ALLOW_RESET_PRODUCTS environment variable; set it to "1" to allow.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if os.Getenv("ALLOW_RESET_PRODUCTS") != "1" {
		return c.Status(fiber.StatusForbidden).SendString("reset not allowed")
	}

	var products []Product
	if err := c.BodyParser(&products); err != nil {
		products = DefaultProducts
	}
	for _, p := range products {
		if ves := validateProductPayload(p); len(ves) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
		}
	}
	if err := h.repo.Reset(products); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	return c.JSON(products)
}
