package engine_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/promokit/bogo-promo-service/internal/engine"
	"github.com/promokit/bogo-promo-service/internal/models"
)

type fakeProducts map[int]models.Product

func (f fakeProducts) GetProduct(_ context.Context, id int) (*models.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var catalog = fakeProducts{
	1: {ID: 1, Name: "Espresso Beans", Price: price("20.00"), Stock: 10},
	2: {ID: 2, Name: "Travel Mug", Price: price("12.50"), Stock: 5},
	3: {ID: 3, Name: "Filter Pack", Price: price("4.00"), Stock: 0},
}

func buyLine(productID, qty int) models.CartLine {
	return models.NewLine(productID, qty, catalog[productID].Price)
}

const today = "2025-06-15"

func TestReconcileGrantsGiftAtThreshold(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 2, GetProduct: 2, GetQty: 1, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 2))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.Len(t, c.Lines, 2)
	gift := c.GiftLine(0, 2)
	require.NotNil(t, gift)
	require.True(t, gift.IsGift)
	require.Equal(t, 1, gift.Quantity)
	require.True(t, gift.UnitPrice.IsZero(), "100% discount means free")
}

func TestReconcileBelowThresholdDoesNothing(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 2, GetProduct: 2, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 1))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.Len(t, c.Lines, 1)
}

func TestReconcileIdempotent(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 2, GetProduct: 2, GetQty: 3, Discount: 50},
		{Index: 1, BuyProduct: models.BuyAll, BuyQty: 1, GetProduct: 3, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 2))

	engine.Reconcile(context.Background(), rules, today, c, catalog)
	after := *c
	afterLines := make([]models.CartLine, len(c.Lines))
	copy(afterLines, c.Lines)

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.Equal(t, after.ID, c.ID)
	require.Equal(t, len(afterLines), len(c.Lines))
	for i := range afterLines {
		require.Equal(t, afterLines[i].ID, c.Lines[i].ID)
		require.Equal(t, afterLines[i].Quantity, c.Lines[i].Quantity)
		require.True(t, afterLines[i].UnitPrice.Equal(c.Lines[i].UnitPrice))
	}
}

func TestReconcileNoDoubleGift(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 1, GetProduct: 2, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 1))

	for i := 0; i < 5; i++ {
		engine.Reconcile(context.Background(), rules, today, c, catalog)
	}

	tagged := 0
	for _, l := range c.Lines {
		if l.GiftRuleIndex != nil && *l.GiftRuleIndex == 0 {
			tagged++
		}
	}
	require.Equal(t, 1, tagged)
}

func TestReconcileGiftLinesExcludedFromBuyCounts(t *testing.T) {
	// Rule 1's gift is product 1, which is also rule 0's buy product.
	// The granted gift must not push rule 0 over its threshold.
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 3, GetProduct: 3, Discount: 100},
		{Index: 1, BuyProduct: "2", BuyQty: 1, GetProduct: 1, GetQty: 2, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 2), buyLine(2, 1))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.NotNil(t, c.GiftLine(1, 1), "rule 1 should grant")
	require.Nil(t, c.GiftLine(0, 3), "gift units of product 1 must not count for rule 0")
}

func TestReconcileUpdatesQuantityAndPrice(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 2, GetProduct: 2, GetQty: 1, Discount: 50},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 2))

	engine.Reconcile(context.Background(), rules, today, c, catalog)
	gift := c.GiftLine(0, 2)
	require.NotNil(t, gift)
	require.Equal(t, "6.25", gift.UnitPrice.StringFixed(2))

	// Admin bumps the rule to two gift units at 0% off.
	rules[0].GetQty = 2
	rules[0].Discount = 0
	engine.Reconcile(context.Background(), rules, today, c, catalog)

	gift = c.GiftLine(0, 2)
	require.NotNil(t, gift)
	require.Equal(t, 2, gift.Quantity)
	require.Equal(t, "12.50", gift.UnitPrice.StringFixed(2), "0% discount restores canonical price, no compounding")
}

func TestReconcileKeepsGiftAfterBuyDrop(t *testing.T) {
	// Documented source behavior: grants are never retracted once the
	// buy quantity falls back below threshold.
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 2, GetProduct: 2, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 2))

	engine.Reconcile(context.Background(), rules, today, c, catalog)
	require.NotNil(t, c.GiftLine(0, 2))

	c.Lines[0].Quantity = 1
	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.NotNil(t, c.GiftLine(0, 2), "gift stays after disqualification")
}

func TestReconcileSkipsExpiredRule(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 1, GetProduct: 2, Discount: 100, EndDate: "2025-01-01"},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 1))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.Len(t, c.Lines, 1)
}

func TestReconcileSkipsMalformedRule(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 0, GetProduct: 2, Discount: 100}, // no buy_qty
		{Index: 1, BuyProduct: "1", BuyQty: 1, GetProduct: 0, Discount: 100}, // no get_product
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 1))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.Len(t, c.Lines, 1)
}

func TestReconcileSkipsUnresolvableGiftProduct(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: "1", BuyQty: 1, GetProduct: 99, Discount: 100},
		{Index: 1, BuyProduct: "1", BuyQty: 1, GetProduct: 2, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 1))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.Nil(t, c.GiftLine(0, 99), "deleted gift product skipped silently")
	require.NotNil(t, c.GiftLine(1, 2), "later rules still processed")
}

func TestReconcileAllProductsRule(t *testing.T) {
	rules := []models.Rule{
		{Index: 0, BuyProduct: models.BuyAll, BuyQty: 3, GetProduct: 3, Discount: 100},
	}
	c := models.NewCart("s1")
	c.Lines = append(c.Lines, buyLine(1, 2), buyLine(2, 1))

	engine.Reconcile(context.Background(), rules, today, c, catalog)

	require.NotNil(t, c.GiftLine(0, 3), "quantities across distinct products add up")
}

func TestGiftPrice(t *testing.T) {
	cases := []struct {
		base     string
		discount int
		want     string
	}{
		{"20.00", 100, "0.00"},
		{"20.00", 50, "10.00"},
		{"20.00", 0, "20.00"},
		{"12.50", 50, "6.25"},
		{"9.99", 25, "7.49"},
	}
	for _, tc := range cases {
		got := engine.GiftPrice(price(tc.base), tc.discount)
		require.Equal(t, tc.want, got.StringFixed(2), "base %s at %d%%", tc.base, tc.discount)
	}
}
