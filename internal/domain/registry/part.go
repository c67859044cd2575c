package registry

import (
	"strings"
	"time"

	"github.com/fieldserve/backend/internal/domain/shared"
)

// Part represents a spare part in the parts catalog. Stock levels are
// informational: logging a part against a work log does not decrement
// QuantityInStock.
type Part struct {
	shared.BaseAggregateRoot
	Name            string
	Description     string
	Category        string
	QuantityInStock int
	MinQuantity     int
}

// NewPart creates a new part
func NewPart(name, description, category string, quantityInStock, minQuantity int) (*Part, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PART_NAME", "Part name cannot be empty")
	}
	if quantityInStock < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity in stock cannot be negative")
	}
	if minQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}

	return &Part{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Category:          strings.TrimSpace(category),
		QuantityInStock:   quantityInStock,
		MinQuantity:       minQuantity,
	}, nil
}

// AdjustStock sets the current stock level
func (p *Part) AdjustStock(quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity in stock cannot be negative")
	}
	p.QuantityInStock = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// IsLowStock reports whether the stock level is at or below the minimum
func (p *Part) IsLowStock() bool {
	return p.QuantityInStock <= p.MinQuantity
}
