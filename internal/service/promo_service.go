package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/promokit/bogo-promo-service/internal/cache"
	"github.com/promokit/bogo-promo-service/internal/cart"
	"github.com/promokit/bogo-promo-service/internal/concurrency"
	"github.com/promokit/bogo-promo-service/internal/engine"
	"github.com/promokit/bogo-promo-service/internal/models"
)

// Repos required by the service (interfaces to allow mocking).
type RuleRepo interface {
	GetRules(ctx context.Context) ([]models.Rule, error)
	CreateRule(ctx context.Context, rule models.Rule) (int, error)
	UpdateRule(ctx context.Context, index int, rule models.Rule) error
	DeleteRule(ctx context.Context, index int) error
}

type ProductRepo interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

type PromoService struct {
	rules    RuleRepo
	products ProductRepo
	carts    *cart.Store
	cache    *cache.RuleCache
	cartURL  string
	now      func() time.Time
}

func NewPromoService(rRepo RuleRepo, pRepo ProductRepo, carts *cart.Store, cartURL string) *PromoService {
	s := &PromoService{
		rules:    rRepo,
		products: pRepo,
		carts:    carts,
		cache:    cache.NewRuleCache(),
		cartURL:  cartURL,
		now:      time.Now,
	}
	// Reconciliation runs on every cart totals recompute.
	carts.OnRecompute(s.reconcileCart)
	return s
}

func (s *PromoService) loadRules(ctx context.Context) ([]models.Rule, error) {
	if rules, ok := s.cache.Get(); ok {
		return rules, nil
	}
	rules, err := s.rules.GetRules(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(rules)
	return rules, nil
}

// reconcileCart is the hook the cart store invokes on recompute. It
// sits on the pricing path, so rule-store failures degrade to "no
// promotions this pass" instead of failing the cart.
func (s *PromoService) reconcileCart(ctx context.Context, c *models.Cart) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		slog.Debug("rule load failed, skipping reconciliation", "error", err)
		return
	}
	engine.Reconcile(ctx, rules, engine.Today(s.now()), c, s.products)
}

// NewSession opens an empty cart and returns its session id.
func (s *PromoService) NewSession() string {
	return s.carts.NewSession()
}

// Cart returns the reconciled cart snapshot for a session.
func (s *PromoService) Cart(ctx context.Context, session string) *models.Cart {
	return s.carts.Snapshot(ctx, session)
}

// LineHints computes the per-line progress hints for a cart snapshot,
// keyed by line id. Gift lines never carry a hint.
func (s *PromoService) LineHints(ctx context.Context, c *models.Cart) map[string]*models.Hint {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil
	}
	today := engine.Today(s.now())
	hints := make(map[string]*models.Hint)
	for _, l := range c.Lines {
		if l.IsGift {
			continue
		}
		if h := engine.FindHint(ctx, rules, today, c.Lines, l.ProductID, s.products); h != nil {
			hints[l.ID] = h
		}
	}
	return hints
}

// Hint returns the progress hint for a product against the session's
// current cart, or nil when no rule partially matches.
func (s *PromoService) Hint(ctx context.Context, session string, productID int) (*models.Hint, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	c := s.carts.Snapshot(ctx, session)
	return engine.FindHint(ctx, rules, engine.Today(s.now()), c.Lines, productID, s.products), nil
}

// AddToCart is the customer add path: product must exist and have
// stock; reconciliation runs as part of the store recompute.
func (s *PromoService) AddToCart(ctx context.Context, session string, productID, qty int) (*models.Cart, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, models.ErrProductNotFound
	}
	if !p.InStock() {
		return nil, models.ErrOutOfStock
	}
	return s.carts.AddProduct(ctx, session, p, qty, nil)
}

// UpdateQuantity changes a non-gift line's quantity.
func (s *PromoService) UpdateQuantity(ctx context.Context, session, lineID string, qty int) (*models.Cart, error) {
	return s.carts.UpdateQuantity(ctx, session, lineID, qty)
}

// RemoveLine removes a non-gift line; gift lines refuse removal.
func (s *PromoService) RemoveLine(ctx context.Context, session, lineID string) (*models.Cart, error) {
	return s.carts.RemoveLine(ctx, session, lineID)
}

type GrabRequest struct {
	BuyProduct       string
	BuyQty           int
	GetProduct       int
	GetQty           int
	Discount         int
	RuleIndex        int
	ContextProductID int
	Session          string
}

type GrabResult struct {
	CartCount int
	CartURL   string
}

// GrabOffer adds a rule's full buy quantity to the cart in one action.
// Unlike the reconciler, which only reacts to cart state, this path
// proactively adds buy-side inventory and must validate existence and
// stock before any mutation. The grab metadata written to the line is
// traceability only; the reconciler re-derives eligibility from raw
// counts.
func (s *PromoService) GrabOffer(ctx context.Context, req GrabRequest) (*GrabResult, error) {
	buyID := 0
	if req.BuyProduct == models.BuyAll {
		if req.ContextProductID == 0 {
			return nil, models.ErrProductNotFound
		}
		buyID = req.ContextProductID
	} else {
		id, err := strconv.Atoi(req.BuyProduct)
		if err != nil {
			return nil, models.ErrProductNotFound
		}
		buyID = id
	}

	p, err := s.products.GetProduct(ctx, buyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, models.ErrProductNotFound
	}
	if !p.InStock() {
		return nil, models.ErrOutOfStock
	}

	qty := req.BuyQty
	if qty < 1 {
		qty = 1
	}
	meta := &models.GrabMeta{
		BuyProduct: req.BuyProduct,
		BuyQty:     req.BuyQty,
		GetProduct: req.GetProduct,
		GetQty:     req.GetQty,
		Discount:   req.Discount,
		RuleIndex:  req.RuleIndex,
	}
	c, err := s.carts.AddProduct(ctx, req.Session, p, qty, meta)
	if err != nil {
		return nil, err
	}
	return &GrabResult{CartCount: c.ItemCount(), CartURL: s.cartURL}, nil
}

// RuleView is a rule enriched with its resolved gift product name for
// the admin listing.
type RuleView struct {
	models.Rule
	GetProductName string `json:"get_product_name,omitempty"`
}

// ListRules returns all stored rules with gift product names resolved
// via a bounded fan-out.
func (s *PromoService) ListRules(ctx context.Context) ([]RuleView, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RuleView, len(rules))
	concurrency.ForEach(ctx, 4, len(rules), func(ctx context.Context, i int) {
		views[i].Rule = rules[i]
		if p, err := s.products.GetProduct(ctx, rules[i].GetProduct); err == nil && p != nil {
			views[i].GetProductName = p.Name
		}
	})
	return views, nil
}

func (s *PromoService) CreateRule(ctx context.Context, rule models.Rule) (int, error) {
	index, err := s.rules.CreateRule(ctx, rule)
	if err != nil {
		return 0, err
	}
	s.cache.Invalidate()
	return index, nil
}

func (s *PromoService) UpdateRule(ctx context.Context, index int, rule models.Rule) error {
	if err := s.rules.UpdateRule(ctx, index, rule); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *PromoService) DeleteRule(ctx context.Context, index int) error {
	if err := s.rules.DeleteRule(ctx, index); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
