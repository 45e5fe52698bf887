package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/promokit/bogo-promo-service/internal/models"
)

// Reconcile converges the cart's gift lines to what the active rules
// entitle the customer to. It runs on every cart totals recompute, so
// it must be idempotent: a second call on the same state is a no-op.
//
// Rules are processed independently in stored index order; the buy
// count for each rule is taken over the cart as mutated by earlier
// rules in the same pass. A rule whose threshold is not met leaves any
// previously granted gift line untouched (grants are never retracted).
// A rule whose gift product cannot be resolved is skipped silently:
// this path sits on the pricing pipeline and must never block
// checkout over a broken promotion.
func Reconcile(ctx context.Context, rules []models.Rule, today string, cart *models.Cart, products ProductResolver) {
	for _, r := range rules {
		if !r.WellFormed() || !Active(r, today) {
			continue
		}
		if BuyCount(r, cart.Lines) < r.BuyQty {
			continue
		}
		p, err := products.GetProduct(ctx, r.GetProduct)
		if err != nil || p == nil {
			continue
		}
		price := GiftPrice(p.Price, r.Discount)
		if line := cart.GiftLine(r.Index, r.GetProduct); line != nil {
			line.Quantity = r.GiftQty()
			line.UnitPrice = price
			continue
		}
		line := models.NewLine(r.GetProduct, r.GiftQty(), price)
		line.IsGift = true
		idx := r.Index
		line.GiftRuleIndex = &idx
		cart.Lines = append(cart.Lines, line)
	}
}

// GiftPrice applies an integer percent discount to the product's
// canonical price. The basis is always the canonical price, never a
// previously discounted line price, so repeated passes cannot
// compound.
func GiftPrice(base decimal.Decimal, discount int) decimal.Decimal {
	if discount <= 0 {
		return base
	}
	if discount >= 100 {
		return decimal.Zero
	}
	return base.Mul(decimal.NewFromInt(int64(100 - discount))).Div(decimal.NewFromInt(100))
}
