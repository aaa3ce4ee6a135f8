package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/arts-market-backend/internal/cart"
	"github.com/wichananm65/arts-market-backend/internal/order"
	"github.com/wichananm65/arts-market-backend/internal/product"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	shopID := s.AddStore(20, "Siam Craft")
	_, err := s.Reset(context.Background(), []product.Product{
		{StoreID: shopID, Name: "Khon Mask", Price: decimal.NewFromInt(100), Stock: 5, IsActive: true},
		{StoreID: shopID, Name: "Tea Cup", Price: decimal.RequireFromString("890.50"), Stock: 3, IsActive: true},
		{Name: "Old Print", Price: decimal.NewFromInt(10), Stock: 1, IsActive: false},
	})
	require.NoError(t, err)
	return s
}

func TestReset_AssignsIDsAndDropsCartLines(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, cart.Line{UserID: 1, ProductID: 1, Quantity: 1}))

	out, err := s.Reset(ctx, []product.Product{{ID: 10, Name: "Kept"}, {Name: "Next"}})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out[0].ID)
	assert.Equal(t, int64(11), out[1].ID)

	items, err := s.Items(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = s.GetByID(ctx, 1)
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestList_FiltersAndPages(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	all, total, err := s.List(ctx, product.Filter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].ID)

	rest, _, err := s.List(ctx, product.Filter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(3), rest[0].ID)

	beyond, _, err := s.List(ctx, product.Filter{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	active, total, err := s.List(ctx, product.Filter{ActiveOnly: true, StoreID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, active, 2)
}

func TestListByIDs_SkipsDuplicatesAndMissing(t *testing.T) {
	s := seeded(t)
	got, err := s.ListByIDs(context.Background(), []int64{2, 99, 1, 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestSave_KeepsCreatedAtOnUpdate(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	require.NoError(t, s.Save(ctx, cart.Line{UserID: 1, ProductID: 1, Quantity: 1, CreatedAt: first, UpdatedAt: first}))
	require.NoError(t, s.Save(ctx, cart.Line{UserID: 1, ProductID: 1, Quantity: 4, CreatedAt: later, UpdatedAt: later}))

	l, err := s.GetLine(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, l.Quantity)
	assert.True(t, l.CreatedAt.Equal(first))
	assert.True(t, l.UpdatedAt.Equal(later))

	assert.ErrorIs(t, s.Delete(ctx, 1, 2), cart.ErrLineNotFound)
	require.NoError(t, s.Delete(ctx, 1, 1))
	_, err = s.GetLine(ctx, 1, 1)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)
}

func TestWithinTx_FailureLeavesStateUntouched(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, cart.Line{UserID: 1, ProductID: 1, Quantity: 2}))
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx order.Tx) error {
		o := order.Order{UserID: 1, Status: order.StatusPending}
		if err := tx.InsertOrder(ctx, &o); err != nil {
			return err
		}
		ok, err := tx.DecrementStock(ctx, 1, 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.ClearCart(ctx, 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)
	items, err := s.Items(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	_, err = s.Get(ctx, 1)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestWithinTx_ConditionalStockUpdates(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx order.Tx) error {
		ok, err := tx.DecrementStock(ctx, 2, 4)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = tx.DecrementStock(ctx, 99, 1)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = tx.DecrementStock(ctx, 2, 3)
		require.NoError(t, err)
		assert.True(t, ok)

		assert.NoError(t, tx.IncrementStock(ctx, 99, 1))
		return tx.IncrementStock(ctx, 1, 2)
	})
	require.NoError(t, err)

	p1, _ := s.GetByID(ctx, 1)
	p2, _ := s.GetByID(ctx, 2)
	assert.Equal(t, 7, p1.Stock)
	assert.Equal(t, 0, p2.Stock)
}

func TestWithinTx_CancelledContext(t *testing.T) {
	s := seeded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinTx(ctx, func(order.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestSoldBy(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	var id int64
	require.NoError(t, s.WithinTx(ctx, func(tx order.Tx) error {
		o := order.Order{UserID: 1, Status: order.StatusPending, CreatedAt: time.Now()}
		if err := tx.InsertOrder(ctx, &o); err != nil {
			return err
		}
		id = o.ID
		_, err := tx.InsertItems(ctx, o.ID, []order.Item{{ProductID: 1, ProductName: "Khon Mask", Quantity: 1, UnitPrice: decimal.NewFromInt(100)}})
		return err
	}))

	sold, err := s.SoldBy(ctx, id, 20)
	require.NoError(t, err)
	assert.True(t, sold)

	sold, err = s.SoldBy(ctx, id, 21)
	require.NoError(t, err)
	assert.False(t, sold)

	sold, err = s.SoldBy(ctx, 404, 20)
	require.NoError(t, err)
	assert.False(t, sold)
}
