// Package cart provides the in-memory session cart store. Each cart
// belongs to exactly one session; the store mutex is the only
// concurrency boundary, and within it every cart mutation runs
// single-threaded.
package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/promokit/bogo-promo-service/internal/engine"
	"github.com/promokit/bogo-promo-service/internal/models"
)

// ReconcileFunc converges a cart's gift lines against the active
// rules. The store calls it on every totals recompute, before any
// snapshot is handed out.
type ReconcileFunc func(ctx context.Context, c *models.Cart)

type Store struct {
	mu        sync.Mutex
	carts     map[string]*models.Cart
	reconcile ReconcileFunc
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*models.Cart)}
}

// OnRecompute registers the reconcile hook. Must be called during
// wiring, before the store serves requests.
func (s *Store) OnRecompute(fn ReconcileFunc) {
	s.reconcile = fn
}

// NewSession creates an empty cart and returns its session id.
func (s *Store) NewSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[id] = models.NewCart(id)
	return id
}

func (s *Store) get(session string) *models.Cart {
	c, ok := s.carts[session]
	if !ok {
		c = models.NewCart(session)
		s.carts[session] = c
	}
	return c
}

func (s *Store) recompute(ctx context.Context, c *models.Cart) {
	if s.reconcile != nil {
		s.reconcile(ctx, c)
	}
}

// Snapshot recomputes the session's cart and returns a deep copy.
func (s *Store) Snapshot(ctx context.Context, session string) *models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(session)
	s.recompute(ctx, c)
	return copyCart(c)
}

// AddProduct is the normal add-to-cart path: it merges the quantity
// into an existing non-gift line for the product, or appends a new
// line priced at the product's canonical price, then recomputes.
func (s *Store) AddProduct(ctx context.Context, session string, p *models.Product, qty int, grab *models.GrabMeta) (*models.Cart, error) {
	if p == nil {
		return nil, models.ErrProductNotFound
	}
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(session)
	merged := false
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.IsGift || l.ProductID != p.ID {
			continue
		}
		l.Quantity += qty
		l.UnitPrice = p.Price
		if grab != nil {
			l.Grab = grab
		}
		merged = true
		break
	}
	if !merged {
		line := models.NewLine(p.ID, qty, p.Price)
		line.Grab = grab
		c.Lines = append(c.Lines, line)
	}
	s.recompute(ctx, c)
	return copyCart(c), nil
}

// UpdateQuantity sets the quantity of a non-gift line and recomputes.
// Callers validate qty; values below 1 are clamped.
func (s *Store) UpdateQuantity(ctx context.Context, session, lineID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(session)
	l := c.Line(lineID)
	if l == nil {
		return nil, models.ErrLineNotFound
	}
	if l.IsGift {
		return nil, models.ErrGiftLine
	}
	l.Quantity = qty
	s.recompute(ctx, c)
	return copyCart(c), nil
}

// RemoveLine deletes a line from the cart. Gift lines are protected
// and refuse removal.
func (s *Store) RemoveLine(ctx context.Context, session, lineID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(session)
	for i := range c.Lines {
		if c.Lines[i].ID != lineID {
			continue
		}
		if !engine.Removable(c.Lines[i]) {
			return nil, models.ErrGiftLine
		}
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		s.recompute(ctx, c)
		return copyCart(c), nil
	}
	return nil, models.ErrLineNotFound
}

func copyCart(c *models.Cart) *models.Cart {
	out := &models.Cart{ID: c.ID, Lines: make([]models.CartLine, len(c.Lines))}
	copy(out.Lines, c.Lines)
	for i := range out.Lines {
		if c.Lines[i].GiftRuleIndex != nil {
			idx := *c.Lines[i].GiftRuleIndex
			out.Lines[i].GiftRuleIndex = &idx
		}
		if c.Lines[i].Grab != nil {
			meta := *c.Lines[i].Grab
			out.Lines[i].Grab = &meta
		}
	}
	return out
}
