//go:build integration

package mysql

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockd/internal/domain"
	"stockd/internal/model"
)

func TestMySQLStoreIntegration(t *testing.T) {
	ctx := context.Background()
	dsn, cleanup := setupMySQLContainer(t, ctx)
	defer cleanup()

	dbConn, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer dbConn.Close()

	store := New(dbConn, zap.NewNop())

	qty, err := store.AddQuantity(ctx, "apple", 10)
	require.NoError(t, err)
	require.Equal(t, int64(10), qty)

	qty, err = store.AddQuantity(ctx, "apple", 5)
	require.NoError(t, err)
	require.Equal(t, int64(15), qty)

	qty, err = store.RemoveQuantity(ctx, "apple", 8)
	require.NoError(t, err)
	require.Equal(t, int64(7), qty)

	_, err = store.RemoveQuantity(ctx, "orange", 1)
	require.ErrorIs(t, err, domain.ErrItemNotFound)

	got, err := store.Quantity(ctx, "apple")
	require.NoError(t, err)
	require.Equal(t, int64(7), got)

	got, err = store.Quantity(ctx, "ghost")
	require.NoError(t, err)
	require.Zero(t, got)

	_, err = store.AddQuantity(ctx, "banana", 2)
	require.NoError(t, err)

	items, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Item{
		{Name: "apple", Quantity: 7},
		{Name: "banana", Quantity: 2},
	}, items)

	low, err := store.LowStock(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []model.Item{{Name: "banana", Quantity: 2}}, low)

	entries, err := store.ListLog(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "apple", entries[0].Item)
	require.Equal(t, int64(10), entries[0].Quantity)

	qty, err = store.RemoveQuantity(ctx, "banana", 99)
	require.NoError(t, err)
	require.Zero(t, qty)

	got, err = store.Quantity(ctx, "banana")
	require.NoError(t, err)
	require.Zero(t, got)

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, model.Snapshot{{Name: "apple", Quantity: 7}}, snap)

	require.NoError(t, store.Replace(ctx, model.Snapshot{
		{Name: "pear", Quantity: 3},
		{Name: "mango", Quantity: 9},
	}))

	items, err = store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Item{
		{Name: "pear", Quantity: 3},
		{Name: "mango", Quantity: 9},
	}, items)
}
