package orders

import "time"

// OrderItem adalah snapshot produk saat pembelian; tidak pernah berubah
// setelah order dibuat.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Items      []OrderItem `json:"items"`
	Status     Status      `json:"status"`
	TotalCents int64       `json:"total_cents"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// ItemsTotalCents: jumlah line total; invariannya selalu == TotalCents.
func (o *Order) ItemsTotalCents() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.LineTotalCents
	}
	return total
}

// ItemInput adalah permintaan line order dari client.
type ItemInput struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// ReservedLine: hasil reservasi stok, bawa snapshot nama+harga saat reserve.
type ReservedLine struct {
	ProductID      string
	ProductName    string
	Qty            int
	UnitPriceCents int64
	Remaining      int // stok tersisa setelah decrement
}
