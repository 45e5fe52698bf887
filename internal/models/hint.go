package models

// Hint is the progress message for a customer who is partially, not
// fully, qualified under a rule.
type Hint struct {
	RemainingQty   int    `json:"remaining_qty"`
	GetQty         int    `json:"get_qty"`
	GetProductName string `json:"get_product_name"`
	DiscountText   string `json:"discount_text"`
	RuleIndex      int    `json:"rule_index"`
}
