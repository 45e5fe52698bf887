package models

import "strconv"

// BuyAll is the buy_product sentinel meaning any product in the cart
// counts toward the buy quantity.
const BuyAll = "all"

type Rule struct {
	Index      int    `json:"rule_index"`
	BuyProduct string `json:"buy_product"`
	BuyQty     int    `json:"buy_qty"`
	GetProduct int    `json:"get_product"`
	GetQty     int    `json:"get_qty"`
	Discount   int    `json:"discount"`
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD, empty = unbounded
	EndDate    string `json:"end_date,omitempty"`   // YYYY-MM-DD, empty = unbounded
}

// WellFormed reports whether the rule carries the fields the engine
// requires. Malformed rules are skipped, never surfaced as errors.
func (r Rule) WellFormed() bool {
	return r.GetProduct != 0 && r.BuyQty > 0
}

// GiftQty returns get_qty with the default of 1 applied when unset.
func (r Rule) GiftQty() int {
	if r.GetQty < 1 {
		return 1
	}
	return r.GetQty
}

// MatchesProduct reports whether the given product can satisfy the
// rule's buy side.
func (r Rule) MatchesProduct(productID int) bool {
	return r.BuyProduct == BuyAll || r.BuyProduct == strconv.Itoa(productID)
}
