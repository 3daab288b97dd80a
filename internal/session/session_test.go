package session

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func TestIssue_TokenCarriesShopper(t *testing.T) {
	iss := NewIssuer("secret")
	token, id, err := iss.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token did not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims[shopperClaim] != id {
		t.Fatalf("expected shopper %s in claims, got %v", id, claims[shopperClaim])
	}
}

func TestSlotKey(t *testing.T) {
	if got := SlotKey("abc"); got != "betashopCart:abc" {
		t.Fatalf("SlotKey = %q", got)
	}
}

func TestSessionRoute_AndShopperFromCtx(t *testing.T) {
	app := fiber.New()
	NewHandler(NewIssuer("secret")).RegisterPublicRoutes(app)
	app.Use(InjectFromHeader)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id, err := ShopperFromCtx(c)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(id)
	})

	res, err := app.Test(httptest.NewRequest("POST", "/api/v1/session", nil))
	if err != nil {
		t.Fatalf("session request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}
	var body struct {
		Token     string `json:"token"`
		ShopperID string `json:"shopperId"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil || body.Token == "" || body.ShopperID == "" {
		t.Fatalf("unexpected session body %+v err=%v", body, err)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	if res2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without shopper, got %d", res2.StatusCode)
	}
	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("X-Shopper-ID", "s-1")
	res3, _ := app.Test(req)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with shopper, got %d", res3.StatusCode)
	}
}
