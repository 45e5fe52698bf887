package cache

import (
	"sync"

	"github.com/promokit/bogo-promo-service/internal/models"
)

// RuleCache holds the current rule set between evaluation passes.
// Admin writes invalidate it so the next pass reloads from storage.
type RuleCache struct {
	mu    sync.RWMutex
	rules []models.Rule
	ok    bool
}

func NewRuleCache() *RuleCache {
	return &RuleCache{}
}

func (c *RuleCache) Get() ([]models.Rule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok {
		return nil, false
	}
	out := make([]models.Rule, len(c.rules))
	copy(out, c.rules)
	return out, true
}

func (c *RuleCache) Set(rules []models.Rule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = make([]models.Rule, len(rules))
	copy(c.rules, rules)
	c.ok = true
}

func (c *RuleCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = nil
	c.ok = false
}
