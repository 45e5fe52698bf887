package engine

import "github.com/promokit/bogo-promo-service/internal/models"

// BuyCount sums quantities over the lines that satisfy the rule's buy
// side. Gift lines never qualify, regardless of which rule produced
// them. Pure function of the cart snapshot.
func BuyCount(r models.Rule, lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		if l.IsGift {
			continue
		}
		if r.MatchesProduct(l.ProductID) {
			n += l.Quantity
		}
	}
	return n
}
