package redisx

import "time"

const (
	// Cache header order: order:{order_id} -> JSON order (tanpa items)
	KeyOrderHeader = "order:%s"

	// Cache purchase history per user: history:{user_id} -> JSON entries
	KeyHistory = "history:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache   = 5 * time.Minute
	TTLHistoryCache = 10 * time.Minute
	TTLDedup        = 48 * time.Hour
)
