package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/order"
	"github.com/wichananm65/betashop/internal/storage"
)

type checkoutTestContext struct {
	backend *storage.MemoryBackend
	port    *storage.Local
	store   *cart.Store
	session *Session
	sched   *manualScheduler
	msg     string
	err     error
	done    <-chan order.Order
}

func (c *checkoutTestContext) reset() {
	c.backend = storage.NewMemoryBackend(nil)
	c.port = storage.NewLocal(c.backend, nil)
	c.store = nil
	c.session = nil
	c.sched = &manualScheduler{}
	c.msg = ""
	c.err = nil
	c.done = nil
}

func (c *checkoutTestContext) openStore() error {
	if c.store != nil {
		return nil
	}
	s, err := cart.NewStore(c.port, cart.StorageKey, nil)
	if err != nil {
		return err
	}
	c.store = s
	return nil
}

func (c *checkoutTestContext) theCartContains(name string, price, qty int) error {
	if err := c.openStore(); err != nil {
		return err
	}
	if _, err := c.store.AddItem(name, price, ""); err != nil {
		return err
	}
	return c.store.SetQuantity(c.store.Len()-1, qty)
}

func (c *checkoutTestContext) iOpenTheCheckout() error {
	if err := c.openStore(); err != nil {
		return err
	}
	s, err := Open(c.store, Config{Scheduler: c.sched, Delay: DefaultOrderDelay})
	c.session, c.err = s, err
	return nil
}

func (c *checkoutTestContext) iApplyPromoCode(code string) error {
	if c.session == nil {
		return errors.New("checkout is not open")
	}
	c.msg, c.err = c.session.ApplyPromo(code)
	return nil
}

func (c *checkoutTestContext) thePromoMessageIs(want string) error {
	if c.err != nil {
		return fmt.Errorf("unexpected error %v", c.err)
	}
	if c.msg != want {
		return fmt.Errorf("expected message %q, got %q", want, c.msg)
	}
	return nil
}

func (c *checkoutTestContext) thePromoIsRejectedBecauseItIsLocked() error {
	if !errors.Is(c.err, ErrPromoLocked) {
		return fmt.Errorf("expected ErrPromoLocked, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) theErrorMessageIs(want string) error {
	if c.err == nil {
		return errors.New("expected an error")
	}
	if got := feedback.Message(c.err); got != want {
		return fmt.Errorf("expected %q, got %q", want, got)
	}
	return nil
}

func (c *checkoutTestContext) theErrorFieldIs(want string) error {
	var fe *feedback.Error
	if !errors.As(c.err, &fe) || fe.Field != want {
		return fmt.Errorf("expected field %q on %v", want, c.err)
	}
	return nil
}

func (c *checkoutTestContext) theRedirectIs(want string) error {
	var fe *feedback.Error
	if !errors.As(c.err, &fe) || fe.Redirect != want {
		return fmt.Errorf("expected redirect %q on %v", want, c.err)
	}
	return nil
}

func (c *checkoutTestContext) theDiscountIs(want int) error {
	if got := c.session.Summary().Discount; got != want {
		return fmt.Errorf("expected discount %d, got %d", want, got)
	}
	return nil
}

func (c *checkoutTestContext) theShippingFeeIs(want int) error {
	if c.session == nil {
		return fmt.Errorf("checkout not open: %v", c.err)
	}
	if got := c.session.Summary().ShippingFee; got != want {
		return fmt.Errorf("expected shipping %d, got %d", want, got)
	}
	return nil
}

func (c *checkoutTestContext) theTotalIs(want int) error {
	if got := c.session.Summary().Total; got != want {
		return fmt.Errorf("expected total %d, got %d", want, got)
	}
	return nil
}

func (c *checkoutTestContext) anotherPageAdds(name string, price int) error {
	other, err := cart.NewStore(c.port, cart.StorageKey, nil)
	if err != nil {
		return err
	}
	defer other.Close()
	_, err = other.AddItem(name, price, "")
	return err
}

func (c *checkoutTestContext) iPlaceAnOrder(email, name, phone, province string) error {
	done, err := c.session.PlaceOrder(Form{Email: email, FullName: name, Phone: phone, Province: province})
	c.err = err
	if err == nil {
		c.done = done
	}
	return nil
}

func (c *checkoutTestContext) theOrderIsProcessing() error {
	if c.err != nil {
		return fmt.Errorf("unexpected error %v", c.err)
	}
	if !c.session.Busy() {
		return errors.New("session is not busy")
	}
	return nil
}

func (c *checkoutTestContext) theOrderIsRejectedBecauseItIsBusy() error {
	if !errors.Is(c.err, ErrBusy) {
		return fmt.Errorf("expected ErrBusy, got %v", c.err)
	}
	return nil
}

func (c *checkoutTestContext) theProcessingDelayPasses() error {
	if n := c.sched.Fire(); n != 1 {
		return fmt.Errorf("expected one scheduled task, ran %d", n)
	}
	return nil
}

func (c *checkoutTestContext) theOrderIsConfirmedWithTotal(want int) error {
	select {
	case o := <-c.done:
		if !strings.HasPrefix(o.OrderID, "BS") {
			return fmt.Errorf("unexpected order id %q", o.OrderID)
		}
		if o.Total != want {
			return fmt.Errorf("expected total %d, got %d", want, o.Total)
		}
		return nil
	default:
		return errors.New("order not delivered")
	}
}

func (c *checkoutTestContext) thePersistedCartIsEmpty() error {
	if raw, ok, _ := c.backend.Get(cart.StorageKey); ok {
		return fmt.Errorf("persisted cart still present: %q", raw)
	}
	return nil
}

func (c *checkoutTestContext) theCheckoutCartIsEmpty() error {
	if !c.store.IsEmpty() || !c.session.Summary().Empty {
		return errors.New("in-memory cart not empty")
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.store != nil {
			tc.store.Close()
		}
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the cart contains "([^"]*)" priced (\d+) with quantity (\d+)$`, tc.theCartContains)

	// When steps
	ctx.Step(`^I open the checkout$`, tc.iOpenTheCheckout)
	ctx.Step(`^I apply promo code "([^"]*)"$`, tc.iApplyPromoCode)
	ctx.Step(`^another page adds "([^"]*)" priced (\d+)$`, tc.anotherPageAdds)
	ctx.Step(`^I place an order with email "([^"]*)" name "([^"]*)" phone "([^"]*)" province "([^"]*)"$`, tc.iPlaceAnOrder)
	ctx.Step(`^the processing delay passes$`, tc.theProcessingDelayPasses)

	// Then steps
	ctx.Step(`^the promo message is "([^"]*)"$`, tc.thePromoMessageIs)
	ctx.Step(`^the promo is rejected because it is locked$`, tc.thePromoIsRejectedBecauseItIsLocked)
	ctx.Step(`^the error message is "([^"]*)"$`, tc.theErrorMessageIs)
	ctx.Step(`^the error field is "([^"]*)"$`, tc.theErrorFieldIs)
	ctx.Step(`^the redirect is "([^"]*)"$`, tc.theRedirectIs)
	ctx.Step(`^the discount is (\d+)$`, tc.theDiscountIs)
	ctx.Step(`^the shipping fee is (\d+)$`, tc.theShippingFeeIs)
	ctx.Step(`^the total is (\d+)$`, tc.theTotalIs)
	ctx.Step(`^the order is processing$`, tc.theOrderIsProcessing)
	ctx.Step(`^the order is rejected because it is busy$`, tc.theOrderIsRejectedBecauseItIsBusy)
	ctx.Step(`^the order is confirmed with total (\d+)$`, tc.theOrderIsConfirmedWithTotal)
	ctx.Step(`^the persisted cart is empty$`, tc.thePersistedCartIsEmpty)
	ctx.Step(`^the checkout cart is empty$`, tc.theCheckoutCartIsEmpty)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
