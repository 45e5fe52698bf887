package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/promokit/bogo-promo-service/internal/models"
)

type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// GetProduct returns the product with the given id, or (nil, nil) when
// it does not exist.
func (r *ProductRepo) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product

	query := `SELECT id, name, price, stock FROM products WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Stock,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
