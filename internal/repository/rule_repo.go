package repository

import (
	"context"
	"database/sql"

	"github.com/promokit/bogo-promo-service/internal/models"
)

type RuleRepo struct {
	db *sql.DB
}

func NewRuleRepo(db *sql.DB) *RuleRepo {
	return &RuleRepo{db: db}
}

const dateLayout = "2006-01-02"

// GetRules returns every stored rule ordered by position. The
// position column is the rule's identity for gift-line tagging; rows
// are updated in place so positions stay stable across reads.
func (r *RuleRepo) GetRules(ctx context.Context) ([]models.Rule, error) {
	query := `
		SELECT position, buy_product, buy_qty, get_product, get_qty, discount, start_date, end_date
		FROM bogo_rules
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.Rule
	for rows.Next() {
		var rule models.Rule
		var start, end sql.NullTime
		if err := rows.Scan(
			&rule.Index,
			&rule.BuyProduct,
			&rule.BuyQty,
			&rule.GetProduct,
			&rule.GetQty,
			&rule.Discount,
			&start,
			&end,
		); err != nil {
			return nil, err
		}
		if start.Valid {
			rule.StartDate = start.Time.Format(dateLayout)
		}
		if end.Valid {
			rule.EndDate = end.Time.Format(dateLayout)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateRule appends the rule at the next free position and returns
// that position.
func (r *RuleRepo) CreateRule(ctx context.Context, rule models.Rule) (int, error) {
	query := `
		INSERT INTO bogo_rules (position, buy_product, buy_qty, get_product, get_qty, discount, start_date, end_date)
		SELECT COALESCE(MAX(position) + 1, 0), $1, $2, $3, $4, $5, $6, $7
		FROM bogo_rules
		RETURNING position
	`
	var position int
	err := r.db.QueryRowContext(ctx, query,
		rule.BuyProduct,
		rule.BuyQty,
		rule.GetProduct,
		rule.GetQty,
		rule.Discount,
		nullDate(rule.StartDate),
		nullDate(rule.EndDate),
	).Scan(&position)
	if err != nil {
		return 0, err
	}
	return position, nil
}

// UpdateRule rewrites the rule at the given position in place.
func (r *RuleRepo) UpdateRule(ctx context.Context, index int, rule models.Rule) error {
	query := `
		UPDATE bogo_rules
		SET buy_product = $2, buy_qty = $3, get_product = $4, get_qty = $5,
		    discount = $6, start_date = $7, end_date = $8
		WHERE position = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		index,
		rule.BuyProduct,
		rule.BuyQty,
		rule.GetProduct,
		rule.GetQty,
		rule.Discount,
		nullDate(rule.StartDate),
		nullDate(rule.EndDate),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrRuleNotFound
	}
	return nil
}

// DeleteRule removes the rule at the given position. Remaining
// positions are left untouched so existing gift-line tags keep
// pointing at the rules that produced them.
func (r *RuleRepo) DeleteRule(ctx context.Context, index int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bogo_rules WHERE position = $1`, index)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrRuleNotFound
	}
	return nil
}

func nullDate(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
