package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrBatchNumberExists = errors.New("product with this batch number already exists")
	ErrInvalidProduct    = errors.New("invalid product")
)

type Product struct {
	ID                string    `json:"id"`
	BatchNumber       string    `json:"batch_number"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"price_cents"`
	QuantityAvailable int       `json:"quantity_available"`
	EntryDate         time.Time `json:"entry_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewProduct memvalidasi invariant saat konstruksi.
func NewProduct(batchNumber, name string, priceCents int64, quantityAvailable int, entryDate time.Time) (*Product, error) {
	p := &Product{
		BatchNumber:       strings.TrimSpace(batchNumber),
		Name:              strings.TrimSpace(name),
		PriceCents:        priceCents,
		QuantityAvailable: quantityAvailable,
		EntryDate:         entryDate,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) validate() error {
	if p.BatchNumber == "" {
		return fmt.Errorf("%w: batch number required", ErrInvalidProduct)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProduct)
	}
	if p.PriceCents <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
	}
	if p.QuantityAvailable < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidProduct)
	}
	if p.EntryDate.IsZero() {
		return fmt.Errorf("%w: entry date required", ErrInvalidProduct)
	}
	return nil
}
