package checkout

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/money"
	"github.com/wichananm65/betashop/internal/session"
)

// orderWaitSlack bounds how long a request waits beyond the order delay.
const orderWaitSlack = 10 * time.Second

type Handler struct {
	opener   *cart.Opener
	sessions *Sessions
	delay    time.Duration
	log      *zap.Logger
}

func NewHandler(opener *cart.Opener, sessions *Sessions, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{opener: opener, sessions: sessions, delay: sessions.cfg.Delay, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/session", h.openSession)
	app.Get("/api/v1/checkout", h.getSummary)
	app.Post("/api/v1/checkout/promo", h.applyPromo)
	app.Post("/api/v1/checkout/orders", h.placeOrder)
}

func (h *Handler) current(c *fiber.Ctx) (*Session, error) {
	shopperID, err := session.ShopperFromCtx(c)
	if err != nil {
		return nil, err
	}
	return h.sessions.Get(shopperID)
}

func (h *Handler) openSession(c *fiber.Ctx) error {
	shopperID, err := session.ShopperFromCtx(c)
	if err != nil {
		return h.fail(c, err)
	}
	store, err := h.opener.Open(session.SlotKey(shopperID))
	if err != nil {
		return h.fail(c, err)
	}
	s, err := h.sessions.Open(shopperID, store)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s.Summary())
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	s, err := h.current(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s.Summary())
}

type promoRequest struct {
	Code string `json:"code"`
}

func (h *Handler) applyPromo(c *fiber.Ctx) error {
	payload := new(promoRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	s, err := h.current(c)
	if err != nil {
		return h.fail(c, err)
	}
	msg, err := s.ApplyPromo(payload.Code)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": msg, "summary": s.Summary()})
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	s, err := h.current(c)
	if err != nil {
		return h.fail(c, err)
	}
	done, err := s.PlaceOrder(*form)
	if err != nil {
		return h.fail(c, err)
	}
	select {
	case o := <-done:
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"orderId":   o.OrderID,
			"total":     o.Total,
			"totalText": money.Format(o.Total),
			"order":     o,
		})
	case <-time.After(h.delay + orderWaitSlack):
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Đang xử lý..."})
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrNoShopper):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, ErrNoSession):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "checkout session not found"})
	case errors.Is(err, ErrBusy), errors.Is(err, ErrOrderPlaced), errors.Is(err, ErrPromoLocked):
		return c.Status(fiber.StatusConflict).JSON(feedback.Body(err))
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrInvalidForm),
		errors.Is(err, ErrPromoRequired), errors.Is(err, ErrPromoInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(feedback.Body(err))
	}
	h.log.Error("checkout request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
}
