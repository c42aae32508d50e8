package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-inventory-orders/internal/kafka"
	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

// UserDirectory: cek eksistensi & identitas user; dipenuhi users.Repo.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// Publisher: sisi publish dari kafkax.Producer. Boleh nil (dev mode tanpa
// kafka); event bersifat non-otoritatif, DB tetap sumber kebenaran.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store       Store
	Users       UserDirectory
	OrderEvents Publisher // topic order.created
	StockEvents Publisher // topic inventory.stock.depleted
	ServiceName string
	Log         *zap.Logger
}

// CreateOrder memvalidasi input, resolve user, lalu reservasi stok +
// persist order dalam satu transaksi lewat Store. Stok berkurang permanen
// hanya kalau order ikut ter-commit.
func (s *Service) CreateOrder(ctx context.Context, userID string, items []ItemInput) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range items {
		if it.ProductID == "" {
			return nil, ErrMissingProductID
		}
		if it.Qty <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQty, it.ProductID)
		}
	}

	if _, err := s.Users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	order, reserved, err := s.Store.CreateOrder(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	s.Log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.Int64("total_cents", order.TotalCents),
		zap.Int("items", len(order.Items)))

	s.publishOrderCreated(order)
	for _, r := range reserved {
		if r.Remaining == 0 {
			s.publishStockDepleted(order.ID, r)
		}
	}
	return order, nil
}

// GetOrder: requesterID nil berarti caller privileged (lolos cek ownership).
func (s *Service) GetOrder(ctx context.Context, orderID string, requesterID *string) (*Order, error) {
	order, err := s.Store.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requesterID != nil && *requesterID != order.UserID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *Service) GetUserOrders(ctx context.Context, userID string) ([]Order, error) {
	return s.Store.FindByUser(ctx, userID)
}

// GetAllOrders: data contract untuk caller privileged; enforcement role ada
// di boundary (httpx).
func (s *Service) GetAllOrders(ctx context.Context) ([]Order, error) {
	return s.Store.FindAll(ctx)
}

func (s *Service) GetInvoice(ctx context.Context, orderID string, requesterID *string) (*Invoice, error) {
	order, err := s.GetOrder(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}
	customer, err := s.Users.FindByID(ctx, order.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	inv := DeriveInvoice(order, customer)
	return &inv, nil
}

func (s *Service) GetPurchaseHistory(ctx context.Context, userID string) ([]HistoryEntry, error) {
	orders, err := s.Store.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AggregateHistory(orders), nil
}

func (s *Service) publishOrderCreated(order *Order) {
	if s.OrderEvents == nil {
		return
	}
	items := make([]ItemPrice, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, ItemPrice{ProductID: it.ProductID, Qty: it.Qty, PriceCents: it.UnitPriceCents})
	}
	s.publish(s.OrderEvents, EventOrderCreated, order.ID, OrderCreatedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Items:      items,
		TotalCents: order.TotalCents,
	})
}

func (s *Service) publishStockDepleted(orderID string, r ReservedLine) {
	if s.StockEvents == nil {
		return
	}
	s.publish(s.StockEvents, EventStockDepleted, orderID, StockDepletedPayload{
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		OrderID:     orderID,
	})
}

func (s *Service) publish(p Publisher, eventType, orderID string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
