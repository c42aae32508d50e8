package catalog

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	Store Store
	Log   *zap.Logger
}

type CreateInput struct {
	BatchNumber       string    `json:"batch_number"`
	Name              string    `json:"name"`
	PriceCents        int64     `json:"price_cents"`
	QuantityAvailable int       `json:"quantity_available"`
	EntryDate         time.Time `json:"entry_date"`
}

// UpdateInput: field nil tidak diubah. BatchNumber immutable setelah create.
type UpdateInput struct {
	Name              *string    `json:"name"`
	PriceCents        *int64     `json:"price_cents"`
	QuantityAvailable *int       `json:"quantity_available"`
	EntryDate         *time.Time `json:"entry_date"`
}

func (s *Service) CreateProduct(ctx context.Context, in CreateInput) (*Product, error) {
	p, err := NewProduct(in.BatchNumber, in.Name, in.PriceCents, in.QuantityAvailable, in.EntryDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.Store.FindByBatchNumber(ctx, p.BatchNumber); err == nil {
		return nil, ErrBatchNumberExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	saved, err := s.Store.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.Log.Info("product created",
		zap.String("product_id", saved.ID),
		zap.String("batch_number", saved.BatchNumber))
	return saved, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.Store.FindByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.Store.List(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in UpdateInput) (*Product, error) {
	p, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.QuantityAvailable != nil {
		p.QuantityAvailable = *in.QuantityAvailable
	}
	if in.EntryDate != nil {
		p.EntryDate = *in.EntryDate
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.Store.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.Log.Info("product deleted", zap.String("product_id", id))
	return nil
}
