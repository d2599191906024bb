package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenshop-server/internal/schemas"
)

func intPtr(i int) *int { return &i }

var productColumns = []string{
	"product_id", "name", "price", "old_price", "image", "is_new",
	"discount_percent", "rating", "description", "category", "color", "stock",
}

func TestRefreshLoadsProducts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT product_id, name, price").
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(int64(1), "Cây chân chim", int64(250000), nil, "chan-chim.jpg", true,
				nil, intPtr(4), strPtr("Cây chân chim lá xanh"), strPtr("lá"), strPtr("xanh"), intPtr(10)).
			AddRow(int64(2), "Cây Dạ Lam", int64(500000), int64Ptr(550000), "da-lam.jpg", false,
				intPtr(9), nil, nil, strPtr("hoa"), strPtr("tím"), nil))

	cache := NewCache(mock)
	require.NoError(t, cache.Refresh(context.Background()))

	products := cache.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Cây chân chim", products[0].Name)
	assert.Equal(t, int64(500000), products[1].Price)
	require.NotNil(t, products[1].OldPrice)
	assert.Equal(t, int64(550000), *products[1].OldPrice)

	product, found := cache.Get(2)
	assert.True(t, found)
	assert.Equal(t, "Cây Dạ Lam", product.Name)

	_, found = cache.Get(99)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshPropagatesQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT product_id, name, price").
		WillReturnError(errors.New("connection refused"))

	cache := NewCache(mock)
	assert.Error(t, cache.Refresh(context.Background()))
	assert.Empty(t, cache.Products())
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT product_id, name, price").
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(int64(3), "Sen đá nâu", int64(120000), nil, "sen-da.jpg", false,
				nil, nil, nil, strPtr("xương rồng"), nil, nil))

	cache := NewCache(mock)

	// A newer snapshot has already been applied: the fetch below started
	// earlier (lower sequence) and must not overwrite it.
	cache.mu.Lock()
	cache.products = []schemas.Product{{ID: 7, Name: "Lan hồ điệp", Price: 850000}}
	cache.version = 5
	cache.mu.Unlock()

	require.NoError(t, cache.Refresh(context.Background()))

	products := cache.Products()
	require.Len(t, products, 1)
	assert.Equal(t, int64(7), products[0].ID)
}

func TestFeaturedWindowWrapsAndRotates(t *testing.T) {
	cache := NewCache(nil)
	cache.mu.Lock()
	cache.products = []schemas.Product{
		{ID: 1, Name: "A", Price: 1},
		{ID: 2, Name: "B", Price: 2},
		{ID: 3, Name: "C", Price: 3},
	}
	cache.mu.Unlock()

	assert.Equal(t, []int64{1, 2}, ids(cache.Featured(2)))

	cache.Rotate()
	assert.Equal(t, []int64{2, 3}, ids(cache.Featured(2)))

	cache.Rotate()
	assert.Equal(t, []int64{3, 1}, ids(cache.Featured(2)))

	// Asking for more than the catalog holds returns the whole catalog once.
	assert.Equal(t, []int64{3, 1, 2}, ids(cache.Featured(10)))
}

func TestFeaturedOnEmptyCatalog(t *testing.T) {
	cache := NewCache(nil)
	assert.Empty(t, cache.Featured(6))
	cache.Rotate()
	assert.Empty(t, cache.Featured(6))
}
