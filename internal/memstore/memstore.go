// Package memstore menyediakan implementasi in-memory dari store katalog,
// order, dan user. Dipakai untuk local dev (STORE_DRIVER=memory) dan test
// deterministik; semantiknya sama dengan implementasi postgres, termasuk
// check-and-decrement stok yang diserialisasi.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ariefcatur/go-inventory-orders/internal/catalog"
	"github.com/ariefcatur/go-inventory-orders/internal/orders"
	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

// Store memegang seluruh state di satu mutex; view per domain di bawah
// memenuhi interface store masing-masing paket.
type Store struct {
	mu sync.Mutex

	products     map[string]*catalog.Product
	productOrder []string // urutan insert, untuk List yang stabil

	orders   map[string]*orders.Order
	orderSeq []string // urutan create; Find* membalik jadi newest-first

	users        map[string]*users.User
	usersByEmail map[string]string
}

func New() *Store {
	return &Store{
		products:     make(map[string]*catalog.Product),
		orders:       make(map[string]*orders.Order),
		users:        make(map[string]*users.User),
		usersByEmail: make(map[string]string),
	}
}

func (s *Store) Catalog() catalog.Store { return &catalogView{s} }
func (s *Store) Orders() orders.Store   { return &ordersView{s} }
func (s *Store) Users() users.Store     { return &usersView{s} }

// ---- catalog.Store ----

type catalogView struct{ *Store }

func (v *catalogView) Create(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cp := *p
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cp.CreatedAt, cp.UpdatedAt = now, now
	v.products[cp.ID] = &cp
	v.productOrder = append(v.productOrder, cp.ID)
	out := cp
	return &out, nil
}

func (v *catalogView) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (v *catalogView) FindByBatchNumber(ctx context.Context, batchNumber string) (*catalog.Product, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, id := range v.productOrder {
		if v.products[id].BatchNumber == batchNumber {
			out := *v.products[id]
			return &out, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (v *catalogView) List(ctx context.Context) ([]catalog.Product, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]catalog.Product, 0, len(v.productOrder))
	for _, id := range v.productOrder {
		out = append(out, *v.products[id])
	}
	return out, nil
}

func (v *catalogView) Update(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	cur, ok := v.products[p.ID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	cp.CreatedAt = cur.CreatedAt
	cp.UpdatedAt = time.Now().UTC()
	v.products[p.ID] = &cp
	out := cp
	return &out, nil
}

func (v *catalogView) Delete(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.products[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(v.products, id)
	for i, pid := range v.productOrder {
		if pid == id {
			v.productOrder = append(v.productOrder[:i], v.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ---- orders.Store ----

type ordersView struct{ *Store }

// CreateOrder: validasi seluruh lines dulu (gagal di pelanggaran pertama,
// tanpa mutasi), baru decrement + simpan order di bawah satu lock. Dua
// CreateOrder yang rebutan stok tidak pernah dua-duanya lolos.
func (v *ordersView) CreateOrder(ctx context.Context, userID string, lines []orders.ItemInput) (*orders.Order, []orders.ReservedLine, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// need akumulatif per produk: lines duplikat untuk produk yang sama
	// dihitung total, sama seperti re-read FOR UPDATE di ledger postgres.
	need := make(map[string]int, len(lines))
	for _, line := range lines {
		p, ok := v.products[line.ProductID]
		if !ok {
			return nil, nil, &orders.ProductNotFoundError{ProductID: line.ProductID}
		}
		need[line.ProductID] += line.Qty
		if p.QuantityAvailable < need[line.ProductID] {
			return nil, nil, &orders.InsufficientStockError{
				ProductID:   line.ProductID,
				ProductName: p.Name,
				Requested:   line.Qty,
				Available:   p.QuantityAvailable - (need[line.ProductID] - line.Qty),
			}
		}
	}

	reserved := make([]orders.ReservedLine, 0, len(lines))
	items := make([]orders.OrderItem, 0, len(lines))
	for _, line := range lines {
		p := v.products[line.ProductID]
		p.QuantityAvailable -= line.Qty
		p.UpdatedAt = time.Now().UTC()
		reserved = append(reserved, orders.ReservedLine{
			ProductID:      p.ID,
			ProductName:    p.Name,
			Qty:            line.Qty,
			UnitPriceCents: p.PriceCents,
			Remaining:      p.QuantityAvailable,
		})
		items = append(items, orders.OrderItem{
			ProductID:      p.ID,
			ProductName:    p.Name,
			Qty:            line.Qty,
			UnitPriceCents: p.PriceCents,
			LineTotalCents: int64(line.Qty) * p.PriceCents,
		})
	}

	now := time.Now().UTC()
	o := &orders.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Items:     items,
		Status:    orders.StatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	o.TotalCents = o.ItemsTotalCents()
	v.orders[o.ID] = o
	v.orderSeq = append(v.orderSeq, o.ID)

	return cloneOrder(o), reserved, nil
}

func (v *ordersView) FindByID(ctx context.Context, id string) (*orders.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	o, ok := v.orders[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (v *ordersView) FindByUser(ctx context.Context, userID string) ([]orders.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []orders.Order
	for i := len(v.orderSeq) - 1; i >= 0; i-- {
		o := v.orders[v.orderSeq[i]]
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	return out, nil
}

func (v *ordersView) FindAll(ctx context.Context) ([]orders.Order, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]orders.Order, 0, len(v.orderSeq))
	for i := len(v.orderSeq) - 1; i >= 0; i-- {
		out = append(out, *cloneOrder(v.orders[v.orderSeq[i]]))
	}
	return out, nil
}

func cloneOrder(o *orders.Order) *orders.Order {
	cp := *o
	cp.Items = append([]orders.OrderItem(nil), o.Items...)
	return &cp
}

// ---- users.Store ----

type usersView struct{ *Store }

func (v *usersView) Create(ctx context.Context, u *users.User) (*users.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	cp := *u
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cp.CreatedAt, cp.UpdatedAt = now, now
	v.users[cp.ID] = &cp
	v.usersByEmail[cp.Email] = cp.ID
	out := cp
	return &out, nil
}

func (v *usersView) FindByID(ctx context.Context, id string) (*users.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	u, ok := v.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (v *usersView) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	id, ok := v.usersByEmail[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	out := *v.users[id]
	return &out, nil
}
