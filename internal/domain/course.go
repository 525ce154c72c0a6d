package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a purchasable product.
type Course struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
}
