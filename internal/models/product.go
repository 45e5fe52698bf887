package models

import "github.com/shopspring/decimal"

type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"` // canonical price, discount basis
	Stock int             `json:"stock"`
}

func (p *Product) InStock() bool {
	return p != nil && p.Stock > 0
}
