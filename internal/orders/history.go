package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry: ringkasan pembelian per produk dari order-order seorang user.
type HistoryEntry struct {
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	TotalQuantity    int             `json:"total_quantity"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	LastPurchaseDate time.Time       `json:"last_purchase_date"`
}

// AggregateHistory group per productId. Urutan output mengikuti urutan
// pertama kali produk muncul (key list eksplisit, bukan iterasi map) supaya
// hasilnya reproducible. TotalSpent dibulatkan sekali di output, bukan per
// akumulasi.
func AggregateHistory(orderList []Order) []HistoryEntry {
	type acc struct {
		name       string
		qty        int
		spentCents int64
		lastDate   time.Time
	}

	var keys []string
	index := make(map[string]*acc)

	for _, o := range orderList {
		for _, it := range o.Items {
			a, ok := index[it.ProductID]
			if !ok {
				a = &acc{name: it.ProductName}
				index[it.ProductID] = a
				keys = append(keys, it.ProductID)
			}
			a.qty += it.Qty
			a.spentCents += it.LineTotalCents
			if o.CreatedAt.After(a.lastDate) {
				a.lastDate = o.CreatedAt
			}
		}
	}

	out := make([]HistoryEntry, 0, len(keys))
	for _, id := range keys {
		a := index[id]
		out = append(out, HistoryEntry{
			ProductID:        id,
			Name:             a.name,
			TotalQuantity:    a.qty,
			TotalSpent:       centsToMoney(a.spentCents),
			LastPurchaseDate: a.lastDate,
		})
	}
	return out
}
