package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Ledger melakukan check-and-decrement stok di dalam transaksi caller.
// Lock per product (FOR UPDATE) sehingga dua order yang rebutan unit
// terakhir diserialisasi; yang kalah dapat InsufficientStockError.
type Ledger struct{}

// Reserve memproses lines sesuai urutan caller dan gagal pada pelanggaran
// PERTAMA (tanpa reservasi parsial). Decrement-nya ikut commit/rollback
// transaksi tx.
func (Ledger) Reserve(ctx context.Context, tx pgx.Tx, lines []ItemInput) ([]ReservedLine, error) {
	reserved := make([]ReservedLine, 0, len(lines))

	for _, line := range lines {
		var (
			name  string
			price int64
			stock int
		)
		err := tx.QueryRow(ctx, `
			SELECT name, price_cents, quantity_available
			FROM products WHERE id=$1 FOR UPDATE`, line.ProductID).
			Scan(&name, &price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if err != nil {
			return nil, err
		}

		if stock < line.Qty {
			return nil, &InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: name,
				Requested:   line.Qty,
				Available:   stock,
			}
		}

		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET quantity_available = quantity_available - $2, updated_at = now()
			WHERE id=$1`, line.ProductID, line.Qty); err != nil {
			return nil, err
		}

		reserved = append(reserved, ReservedLine{
			ProductID:      line.ProductID,
			ProductName:    name,
			Qty:            line.Qty,
			UnitPriceCents: price,
			Remaining:      stock - line.Qty,
		})
	}
	return reserved, nil
}
