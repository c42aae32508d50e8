package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store adalah kontrak penyimpanan katalog; dipenuhi Repo (postgres) dan
// memstore (dev/test). Mutasi stok saat order TIDAK lewat sini, tapi lewat
// ledger di dalam transaksi order.
type Store interface {
	Create(ctx context.Context, p *Product) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByBatchNumber(ctx context.Context, batchNumber string) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, p *Product) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, batch_number, name, price_cents, quantity_available, entry_date, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.BatchNumber, &p.Name, &p.PriceCents, &p.QuantityAvailable, &p.EntryDate, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, p *Product) (*Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, batch_number, name, price_cents, quantity_available, entry_date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+productCols,
		p.ID, p.BatchNumber, p.Name, p.PriceCents, p.QuantityAvailable, p.EntryDate)
	out, err := scanProduct(row)
	if isUniqueViolation(err) {
		// create bersamaan bisa lolos pre-check batch number di service;
		// constraint UNIQUE tetap menang, petakan ke error domain
		return nil, ErrBatchNumberExists
	}
	return out, err
}

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

func (r *Repo) FindByBatchNumber(ctx context.Context, batchNumber string) (*Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE batch_number=$1`, batchNumber))
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productCols+` FROM products ORDER BY batch_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, p *Product) (*Product, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, price_cents=$3, quantity_available=$4, entry_date=$5, updated_at=now()
		WHERE id=$1
		RETURNING `+productCols,
		p.ID, p.Name, p.PriceCents, p.QuantityAvailable, p.EntryDate)
	return scanProduct(row)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
