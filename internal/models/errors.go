package models

import "errors"

var (
	ErrProductNotFound = errors.New("product_not_found")
	ErrOutOfStock      = errors.New("out_of_stock")
	ErrGiftLine        = errors.New("gift_line_protected")
	ErrLineNotFound    = errors.New("line_not_found")
	ErrRuleNotFound    = errors.New("rule_not_found")
)
