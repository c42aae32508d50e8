package memstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-inventory-orders/internal/catalog"
	"github.com/ariefcatur/go-inventory-orders/internal/orders"
	"github.com/ariefcatur/go-inventory-orders/internal/users"
)

func seedProduct(t *testing.T, s *Store, batch, name string, priceCents int64, qty int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(batch, name, priceCents, qty, time.Now().UTC())
	require.NoError(t, err)
	saved, err := s.Catalog().Create(context.Background(), p)
	require.NoError(t, err)
	return saved
}

func seedUser(t *testing.T, s *Store, email string) *users.User {
	t.Helper()
	u, err := users.NewUser(email, "Test", "User", users.RoleClient)
	require.NoError(t, err)
	saved, err := s.Users().Create(context.Background(), u)
	require.NoError(t, err)
	return saved
}

func TestCreateOrder_DecrementsStock(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 10)
	u := seedUser(t, s, "buyer@example.com")

	order, reserved, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{
		{ProductID: p.ID, Qty: 4},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4000), order.TotalCents)
	assert.Equal(t, order.ItemsTotalCents(), order.TotalCents)
	assert.Equal(t, orders.StatusCompleted, order.Status)
	require.Len(t, reserved, 1)
	assert.Equal(t, 6, reserved[0].Remaining)

	got, err := s.Catalog().FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.QuantityAvailable)
}

func TestCreateOrder_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 3)
	q := seedProduct(t, s, "B-002", "Gadget", 500, 10)
	u := seedUser(t, s, "buyer@example.com")

	// line kedua gagal; line pertama juga tidak boleh berubah
	_, _, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{
		{ProductID: q.ID, Qty: 2},
		{ProductID: p.ID, Qty: 5},
	})

	var stockErr *orders.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Widget", stockErr.ProductName)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	gotP, _ := s.Catalog().FindByID(context.Background(), p.ID)
	gotQ, _ := s.Catalog().FindByID(context.Background(), q.ID)
	assert.Equal(t, 3, gotP.QuantityAvailable)
	assert.Equal(t, 10, gotQ.QuantityAvailable)

	list, err := s.Orders().FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "no order may be persisted on failed reservation")
}

func TestCreateOrder_DuplicateLinesOversell(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 4)
	u := seedUser(t, s, "buyer@example.com")

	// dua line produk yang sama: line kedua dinilai terhadap stok yang
	// sudah dikurangi line pertama, seperti di ledger postgres
	_, _, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{
		{ProductID: p.ID, Qty: 3},
		{ProductID: p.ID, Qty: 3},
	})

	var stockErr *orders.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	got, _ := s.Catalog().FindByID(context.Background(), p.ID)
	assert.Equal(t, 4, got.QuantityAvailable, "stock must be untouched on failed reservation")

	list, err := s.Orders().FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateOrder_DuplicateLinesWithinStock(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 10)
	u := seedUser(t, s, "buyer@example.com")

	order, reserved, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{
		{ProductID: p.ID, Qty: 3},
		{ProductID: p.ID, Qty: 3},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(6000), order.TotalCents)
	require.Len(t, reserved, 2)
	assert.Equal(t, 7, reserved[0].Remaining)
	assert.Equal(t, 4, reserved[1].Remaining)

	got, _ := s.Catalog().FindByID(context.Background(), p.ID)
	assert.Equal(t, 4, got.QuantityAvailable)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	s := New()
	u := seedUser(t, s, "buyer@example.com")

	_, _, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{
		{ProductID: "nope", Qty: 1},
	})

	var notFound *orders.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.ProductID)
}

// Dua order rebutan unit terakhir: tepat satu sukses, stok akhir 0.
func TestCreateOrder_ConcurrentLastUnit(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 1)
	u1 := seedUser(t, s, "a@example.com")
	u2 := seedUser(t, s, "b@example.com")

	svc := &orders.Service{
		Store:       s.Orders(),
		Users:       s.Users(),
		ServiceName: "test-api",
		Log:         zap.NewNop(),
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []string{u1.ID, u2.ID} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = svc.CreateOrder(context.Background(), uid, []orders.ItemInput{
				{ProductID: p.ID, Qty: 1},
			})
		}(i, uid)
	}
	wg.Wait()

	var succeeded, failed int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *orders.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		failed++
	}
	assert.Equal(t, 1, succeeded, "exactly one order may win the last unit")
	assert.Equal(t, 1, failed)

	got, _ := s.Catalog().FindByID(context.Background(), p.ID)
	assert.Equal(t, 0, got.QuantityAvailable)

	all, err := s.Orders().FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByUser_NewestFirst(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 100)
	u := seedUser(t, s, "buyer@example.com")

	first, _, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{{ProductID: p.ID, Qty: 1}})
	require.NoError(t, err)
	second, _, err := s.Orders().CreateOrder(context.Background(), u.ID, []orders.ItemInput{{ProductID: p.ID, Qty: 2}})
	require.NoError(t, err)

	list, err := s.Orders().FindByUser(context.Background(), u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestCatalog_CRUD(t *testing.T) {
	s := New()
	p := seedProduct(t, s, "B-001", "Widget", 1000, 5)

	byBatch, err := s.Catalog().FindByBatchNumber(context.Background(), "B-001")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byBatch.ID)

	p.Name = "Widget v2"
	updated, err := s.Catalog().Update(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", updated.Name)

	require.NoError(t, s.Catalog().Delete(context.Background(), p.ID))
	_, err = s.Catalog().FindByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	list, err := s.Catalog().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
