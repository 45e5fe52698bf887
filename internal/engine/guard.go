package engine

import "github.com/promokit/bogo-promo-service/internal/models"

// Removable reports whether the cart surface may offer removal of the
// line. Gift lines are reconciler-managed and must not expose a
// remove affordance.
func Removable(l models.CartLine) bool {
	return !l.IsGift
}
