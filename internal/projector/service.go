// Package projector meng-consume event order dan menjaga cache baca di
// Redis tetap hangat. Murni read-side: tidak pernah menyentuh stok atau
// tabel order.
package projector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-inventory-orders/internal/kafka"
	"github.com/ariefcatur/go-inventory-orders/internal/orders"
	"github.com/ariefcatur/go-inventory-orders/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         *zap.Logger
}

// HandleOrderCreated dipasang sebagai handler consumer topic order.created.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil // ignore
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	// Cache header order untuk GET cepat; isi cache history dibiarkan ke
	// request berikutnya, di sini cukup invalidate.
	header := map[string]any{
		"id":          p.OrderID,
		"user_id":     p.UserID,
		"status":      orders.StatusCompleted,
		"total_cents": p.TotalCents,
	}
	b, _ := json.Marshal(header)
	if err := s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyOrderHeader, p.OrderID), b, redisx.TTLOrderCache).Err(); err != nil {
		return err
	}
	if err := s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyHistory, p.UserID)).Err(); err != nil {
		return err
	}

	s.Log.Info("order projected",
		zap.String("order_id", p.OrderID),
		zap.String("user_id", p.UserID))
	return nil
}
