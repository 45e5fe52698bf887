// Package engine implements the BOGO decision core: date gating,
// buy-quantity eligibility, hint matching and cart reconciliation.
// Everything here is a pure computation or a direct in-memory cart
// mutation; persistence and transport live elsewhere.
package engine

import (
	"time"

	"github.com/promokit/bogo-promo-service/internal/models"
)

// Active reports whether today falls inside the rule's date window,
// bounds inclusive. Dates are YYYY-MM-DD strings and compare
// lexically; an empty bound is open.
func Active(r models.Rule, today string) bool {
	if r.StartDate != "" && r.StartDate > today {
		return false
	}
	if r.EndDate != "" && r.EndDate < today {
		return false
	}
	return true
}

// Today formats a reference time as the gating date string.
func Today(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
