package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GrabMeta is the traceability tag written by the manual grab path.
// The reconciler never reads it; eligibility is always re-derived from
// raw line counts.
type GrabMeta struct {
	BuyProduct string `json:"buy_product"`
	BuyQty     int    `json:"buy_qty"`
	GetProduct int    `json:"get_product"`
	GetQty     int    `json:"get_qty"`
	Discount   int    `json:"discount"`
	RuleIndex  int    `json:"rule_index"`
}

type CartLine struct {
	ID            string          `json:"id"`
	ProductID     int             `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	IsGift        bool            `json:"is_gift"`
	GiftRuleIndex *int            `json:"gift_rule_index,omitempty"`
	Grab          *GrabMeta       `json:"grab,omitempty"`
}

// LineTotal is quantity times unit price.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	ID    string     `json:"id"`
	Lines []CartLine `json:"lines"`
}

func NewCart(id string) *Cart {
	return &Cart{ID: id}
}

// NewLine builds a regular (non-gift) cart line.
func NewLine(productID, qty int, price decimal.Decimal) CartLine {
	return CartLine{
		ID:        uuid.NewString(),
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: price,
	}
}

// Line returns the line with the given id, or nil.
func (c *Cart) Line(id string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return &c.Lines[i]
		}
	}
	return nil
}

// GiftLine returns the line tagged as the gift of ruleIndex for the
// given product, or nil. At most one such line exists per rule index.
func (c *Cart) GiftLine(ruleIndex, productID int) *CartLine {
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.GiftRuleIndex != nil && *l.GiftRuleIndex == ruleIndex && l.ProductID == productID {
			return l
		}
	}
	return nil
}

// ItemCount sums quantities across every line, gifts included.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums line totals across the cart.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
