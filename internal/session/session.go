package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/wichananm65/betashop/internal/cart"
)

const (
	shopperClaim = "shopper_id"
	tokenTTL     = 30 * 24 * time.Hour
)

var ErrNoShopper = errors.New("no shopper in request")

// SlotKey is the persisted cart key of one shopper. It plays the role of the
// browser-local slot shared by every page the shopper has open.
func SlotKey(shopperID string) string {
	return cart.StorageKey + ":" + shopperID
}

// Issuer signs guest tokens.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue creates a new guest identity and its HS256 token.
func (i *Issuer) Issue() (token string, shopperID string, err error) {
	shopperID = uuid.NewString()
	claims := jwt.MapClaims{
		shopperClaim: shopperID,
		"exp":        i.now().Add(tokenTTL).Unix(),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", err
	}
	return token, shopperID, nil
}

// ShopperFromCtx extracts the shopper_id claim from the JWT stored in
// c.Locals("user") by the jwt middleware.
func ShopperFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return "", ErrNoShopper
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrNoShopper
	}
	id, ok := claims[shopperClaim].(string)
	if !ok || id == "" {
		return "", ErrNoShopper
	}
	return id, nil
}

// Handler exposes guest session creation.
type Handler struct {
	issuer *Issuer
}

func NewHandler(issuer *Issuer) *Handler {
	return &Handler{issuer: issuer}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/session", h.createSession)
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	token, id, err := h.issuer.Issue()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "shopperId": id})
}

// InjectFromHeader is a test helper middleware that stores a token carrying
// the X-Shopper-ID header value, standing in for the jwt middleware.
func InjectFromHeader(c *fiber.Ctx) error {
	if v := c.Get("X-Shopper-ID"); v != "" {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{shopperClaim: v}})
	}
	return c.Next()
}
