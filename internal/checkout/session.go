package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/address"
	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/feedback"
	"github.com/wichananm65/betashop/internal/order"
)

const (
	DefaultIdleTimeout = 30 * time.Minute

	ListingPath     = "/"
	CartChangedNote = "Giỏ hàng đã được cập nhật. Chuyển về trang chủ."
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrBusy        = errors.New("order is being processed")
	ErrOrderPlaced = errors.New("order already placed")
	ErrNoSession   = errors.New("no open checkout session")
)

// Config is shared by every checkout session.
type Config struct {
	Delay     time.Duration
	Scheduler Scheduler
	Now       func() time.Time
	// Regions, when set, rejects provinces that are not in the region table.
	Regions *address.Service
	// IdleTimeout is how long an unused session stays registered.
	IdleTimeout time.Duration
	Log         *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Scheduler == nil {
		c.Scheduler = TimerScheduler{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Log == nil {
		c.Log = zap.NewNop()
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	return c
}

// Session is one load of the checkout page. Discount and promo state start
// at zero for every session.
type Session struct {
	mu           sync.Mutex
	cfg          Config
	store        *cart.Store
	promo        *Promo
	discount     int
	freeShipping bool
	busy         bool
	placed       bool
	notice       string
	redirect     string
	form         Form
	lastUsed     time.Time
	// finished is installed by Sessions to drop the session once its
	// order is delivered.
	finished func(*Session)
}

// Open starts a checkout over store. An empty cart is refused with a
// redirect to the listing.
func Open(store *cart.Store, cfg Config) (*Session, error) {
	if store.IsEmpty() {
		return nil, feedback.New(ErrEmptyCart, "Giỏ hàng của bạn đang trống. Vui lòng thêm sản phẩm trước khi thanh toán.").WithRedirect(ListingPath)
	}
	s := &Session{cfg: cfg.withDefaults(), store: store}
	s.lastUsed = s.cfg.Now()
	store.Watch(s.cartChanged)
	return s, nil
}

func (s *Session) cartChanged(items []cart.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(items) == 0 && !s.placed && !s.busy {
		s.notice = CartChangedNote
		s.redirect = ListingPath
		s.cfg.Log.Info("checkout cart emptied elsewhere", zap.String("key", s.store.Key()))
	}
}

func (s *Session) Summary() Summary {
	items := s.store.Items()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked(items)
}

func (s *Session) summaryLocked(items []cart.CartItem) Summary {
	sum := Summarize(items, s.discount, s.freeShipping)
	if s.promo != nil {
		sum.Promo = s.promo.Code
	}
	sum.PromoLocked = s.promo != nil
	sum.Notice = s.notice
	sum.Redirect = s.redirect
	return sum
}

// ApplyPromo applies one code per session. The discount is computed from the
// subtotal at the time the code is applied.
func (s *Session) ApplyPromo(code string) (string, error) {
	subtotal := s.store.Subtotal()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.promo != nil {
		return "", feedback.New(ErrPromoLocked, "Mã giảm giá đã được áp dụng").WithField("promoCode")
	}
	p, err := LookupPromo(code)
	if err != nil {
		return "", err
	}
	switch p.Kind {
	case PromoShipping:
		s.freeShipping = true
		s.discount = 0
	default:
		s.discount = p.Discount(subtotal)
	}
	s.promo = &p
	s.cfg.Log.Debug("promo applied", zap.String("code", p.Code), zap.Int("discount", s.discount))
	return p.SuccessMessage(), nil
}

// PlaceOrder validates f and schedules the order. The returned channel
// delivers the order once the processing delay has passed; by then the cart
// is cleared.
func (s *Session) PlaceOrder(f Form) (<-chan order.Order, error) {
	if err := s.begin(f); err != nil {
		return nil, err
	}
	done := make(chan order.Order, 1)
	s.cfg.Scheduler.AfterFunc(s.cfg.Delay, func() { s.complete(done) })
	return done, nil
}

// begin marks the session busy once f and the cart pass every check.
func (s *Session) begin(f Form) error {
	empty := s.store.IsEmpty()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return feedback.New(ErrBusy, "Đang xử lý...")
	}
	if s.placed {
		return feedback.New(ErrOrderPlaced, "Đơn hàng đã được đặt")
	}
	if empty {
		return feedback.New(ErrEmptyCart, "Giỏ hàng của bạn đang trống!")
	}
	if err := Validate(f); err != nil {
		return err
	}
	if s.cfg.Regions != nil {
		sel := s.cfg.Regions.NewSelection()
		if err := sel.SelectProvince(f.Province); err != nil {
			if errors.Is(err, address.ErrUnknownProvince) {
				return feedback.New(ErrInvalidForm, "Vui lòng chọn tỉnh thành").WithField("province")
			}
			return err
		}
		if err := sel.SelectDistrict(f.District); err != nil {
			if errors.Is(err, address.ErrUnknownDistrict) {
				return feedback.New(ErrInvalidForm, "Quận huyện không hợp lệ").WithField("district")
			}
			return err
		}
	}
	s.busy = true
	s.form = f
	return nil
}

func (s *Session) complete(done chan<- order.Order) {
	items := s.store.Items()
	s.mu.Lock()
	o := order.New(items, ShippingFee(cart.Subtotal(items), s.freeShipping), s.discount, s.cfg.Now())
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.cfg.Log.Error("clear cart after order", zap.String("order", o.OrderID), zap.Error(err))
	}

	s.mu.Lock()
	s.busy = false
	s.placed = true
	s.form = Form{}
	finished := s.finished
	s.mu.Unlock()

	s.cfg.Log.Info("order placed", zap.String("order", o.OrderID), zap.Int("total", o.Total))
	s.Close()
	if finished != nil {
		finished(s)
	}
	done <- o
	close(done)
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) Placed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placed
}

// Form is the submitted form while an order is processing; it is reset
// once the order is placed.
func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) Close() { s.store.Close() }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

// idleSince reports whether s has not been used since cutoff. A session
// with an order in flight is never idle.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && s.lastUsed.Before(cutoff)
}

// Sessions tracks the open checkout of each shopper.
type Sessions struct {
	mu   sync.Mutex
	cfg  Config
	open map[string]*Session
}

func NewSessions(cfg Config) *Sessions {
	return &Sessions{cfg: cfg.withDefaults(), open: map[string]*Session{}}
}

// Open starts a new checkout for shopperID, replacing any previous one.
func (r *Sessions) Open(shopperID string, store *cart.Store) (*Session, error) {
	s, err := Open(store, r.cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	s.mu.Lock()
	s.finished = func(done *Session) { r.release(shopperID, done) }
	s.mu.Unlock()
	r.mu.Lock()
	prev := r.open[shopperID]
	r.open[shopperID] = s
	r.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return s, nil
}

func (r *Sessions) Get(shopperID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.open[shopperID]
	if !ok {
		return nil, ErrNoSession
	}
	s.touch(r.cfg.Now())
	return s, nil
}

// Len is the number of registered sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.open)
}

// release unregisters s if it is still the shopper's current session.
func (r *Sessions) release(shopperID string, s *Session) {
	r.mu.Lock()
	if r.open[shopperID] == s {
		delete(r.open, shopperID)
	}
	r.mu.Unlock()
}

// Sweep closes every session left unused for longer than IdleTimeout and
// returns how many were dropped.
func (r *Sessions) Sweep() int {
	cutoff := r.cfg.Now().Add(-r.cfg.IdleTimeout)
	r.mu.Lock()
	var idle []*Session
	for id, s := range r.open {
		if s.idleSince(cutoff) {
			idle = append(idle, s)
			delete(r.open, id)
		}
	}
	r.mu.Unlock()
	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		r.cfg.Log.Info("dropped idle checkout sessions", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Sessions) Close(shopperID string) {
	r.mu.Lock()
	s := r.open[shopperID]
	delete(r.open, shopperID)
	r.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

// CloseAll releases every open session.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	open := r.open
	r.open = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range open {
		s.Close()
	}
}
