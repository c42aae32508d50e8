package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

// Invoice adalah derivasi read-only dari order yang sudah tersimpan.
// Nilai uang tampil 2 desimal; subtotal dijumlah dari line total yang
// SUDAH dibulatkan supaya angka di invoice selalu konsisten ke bawah.
type Invoice struct {
	OrderID     string          `json:"order_id"`
	InvoiceDate time.Time       `json:"invoice_date"`
	Customer    InvoiceCustomer `json:"customer"`
	Items       []InvoiceLine   `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"` // == Subtotal, tanpa pajak
	Status      Status          `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
}

type InvoiceCustomer struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type InvoiceLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

func centsToMoney(cents int64) decimal.Decimal {
	return decimal.New(cents, -2).Round(2)
}

// DeriveInvoice deterministik dan bebas side effect: dua kali panggil atas
// order yang sama menghasilkan angka yang identik.
func DeriveInvoice(order *Order, customer *users.User) Invoice {
	items := make([]InvoiceLine, 0, len(order.Items))
	subtotal := decimal.Zero
	for _, it := range order.Items {
		line := InvoiceLine{
			Name:      it.ProductName,
			Quantity:  it.Qty,
			UnitPrice: centsToMoney(it.UnitPriceCents),
			Total:     centsToMoney(it.LineTotalCents),
		}
		items = append(items, line)
		subtotal = subtotal.Add(line.Total)
	}

	return Invoice{
		OrderID:     order.ID,
		InvoiceDate: time.Now().UTC(),
		Customer:    InvoiceCustomer{UserID: customer.ID, Email: customer.Email},
		Items:       items,
		Subtotal:    subtotal,
		Total:       subtotal,
		Status:      order.Status,
		OrderDate:   order.CreatedAt,
	}
}
