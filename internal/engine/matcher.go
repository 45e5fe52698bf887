package engine

import (
	"context"
	"fmt"

	"github.com/promokit/bogo-promo-service/internal/models"
)

// ProductResolver supplies the canonical product record for pricing
// and naming. Implementations must return (nil, nil) for unknown ids.
type ProductResolver interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
}

// FindHint walks the rules in stored index order and returns the
// progress hint for the first rule that is well-formed, date-active,
// matches the subject product and is partially satisfied
// (0 < buyCount < buyQty). First match wins; full qualification is the
// reconciler's concern and yields no hint. Returns nil when no rule
// partially matches.
//
// This is the single hint computation shared by the product page, the
// per-line cart display and the ad hoc lookup endpoint.
func FindHint(ctx context.Context, rules []models.Rule, today string, lines []models.CartLine, subjectProductID int, products ProductResolver) *models.Hint {
	for _, r := range rules {
		if !r.WellFormed() || !Active(r, today) {
			continue
		}
		if !r.MatchesProduct(subjectProductID) {
			continue
		}
		count := BuyCount(r, lines)
		if count <= 0 || count >= r.BuyQty {
			continue
		}
		p, err := products.GetProduct(ctx, r.GetProduct)
		if err != nil || p == nil {
			// Unresolvable gift product: the rule does not apply.
			continue
		}
		return &models.Hint{
			RemainingQty:   r.BuyQty - count,
			GetQty:         r.GiftQty(),
			GetProductName: p.Name,
			DiscountText:   DiscountText(r.Discount),
			RuleIndex:      r.Index,
		}
	}
	return nil
}

// DiscountText renders the customer-facing discount fragment.
func DiscountText(discount int) string {
	if discount == 100 {
		return "for free!"
	}
	return fmt.Sprintf("at %d%% off!", discount)
}
