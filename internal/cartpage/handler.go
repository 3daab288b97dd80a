package cartpage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/session"
)

const keepAlive = 15 * time.Second

type Handler struct {
	opener *cart.Opener
	log    *zap.Logger
}

func NewHandler(opener *cart.Opener, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{opener: opener, log: log}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/commands", h.postCommand)
	app.Post("/api/v1/cart/checkout", h.postCheckout)
	app.Get("/api/v1/cart/events", h.streamCart)
}

func (h *Handler) open(c *fiber.Ctx) (*cart.Store, error) {
	shopperID, err := session.ShopperFromCtx(c)
	if err != nil {
		return nil, err
	}
	return h.opener.Open(session.SlotKey(shopperID))
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}
	defer store.Close()
	return c.JSON(NewController(store, h.log).View())
}

func (h *Handler) postCommand(c *fiber.Ctx) error {
	var cmd Command
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	store, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}
	defer store.Close()

	ctl := NewController(store, h.log)
	confirm := Decline
	if cmd.Confirm {
		confirm = Approve
	}
	if err := ctl.Dispatch(cmd, confirm); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ctl.View())
}

func (h *Handler) postCheckout(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}
	defer store.Close()

	to, err := NewController(store, h.log).Checkout()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"redirect": to})
}

// streamCart pushes a fresh view every time another page context changes
// the shopper's cart.
func (h *Handler) streamCart(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	updates := make(chan View, 8)
	store.Watch(func(items []cart.CartItem) {
		select {
		case updates <- Render(items):
		default:
			h.log.Warn("cart stream is lagging; dropping update", zap.String("key", store.Key()))
		}
	})
	initial := NewController(store, h.log).View()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		defer store.Close()
		if err := writeEvents(w, initial, updates, ticker.C); err != nil {
			h.log.Debug("cart stream closed", zap.String("key", store.Key()), zap.Error(err))
		}
	})
	return nil
}

// writeEvents writes initial and then every update as an SSE "cart" event
// until updates is closed or the client goes away.
func writeEvents(w *bufio.Writer, initial View, updates <-chan View, ping <-chan time.Time) error {
	if err := writeEvent(w, initial); err != nil {
		return err
	}
	for {
		select {
		case v, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeEvent(w, v); err != nil {
				return err
			}
		case <-ping:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
}

func writeEvent(w *bufio.Writer, v View) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: cart\ndata: %s\n\n", b); err != nil {
		return err
	}
	return w.Flush()
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrNoShopper):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, ErrConfirmationRequired), errors.Is(err, cart.ErrStaleRow):
		return c.Status(fiber.StatusConflict).JSON(feedback.Body(err))
	case errors.Is(err, ErrEmptyCart), errors.Is(err, ErrUnknownCommand):
		return c.Status(fiber.StatusBadRequest).JSON(feedback.Body(err))
	}
	h.log.Error("cart request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "internal error"})
}
