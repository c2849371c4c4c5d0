package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/bagstore/internal/cache"
	inErrors "github.com/Alturino/bagstore/internal/errors"
	"github.com/Alturino/bagstore/internal/infra/infratest"
	"github.com/Alturino/bagstore/internal/listing"
	"github.com/Alturino/bagstore/internal/repository"
	"github.com/Alturino/bagstore/product/pkg/request"
)

func setup(t *testing.T) (context.Context, *ProductService, func()) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano})
	c := logger.WithContext(context.Background())

	pool, teardownPostgres := infratest.Postgres(t, c)
	cacheClient, teardownRedis := infratest.Redis(t, c)
	svc := NewProductService(repository.New(pool), cacheClient, 10)
	return c, svc, func() {
		teardownRedis()
		teardownPostgres()
	}
}

func tote() request.Product {
	return request.Product{
		Name:           "Canvas Tote",
		Description:    "everyday canvas tote",
		Price:          decimal.RequireFromString("100.00"),
		Quantity:       5,
		Colors:         []string{"sand", "black"},
		ExistingImages: []string{"https://cdn.example.com/tote.jpg"},
	}
}

func TestProductLifecycle(t *testing.T) {
	c, svc, teardown := setup(t)
	defer teardown()

	created, err := svc.InsertProduct(c, tote(), []string{"/uploads/a.png"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, []string{"https://cdn.example.com/tote.jpg", "/uploads/a.png"}, created.Images)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(100)))

	_, err = svc.InsertProduct(c, tote(), nil)
	assert.ErrorIs(t, err, inErrors.ErrAlreadyExist, "product names are unique")

	cached, err := svc.cache.Get(c, cache.ProductKey(created.ID)).Result()
	require.NoError(t, err)
	assert.Contains(t, cached, "Canvas Tote")

	found, err := svc.FindProductById(c, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, int32(5), found.Quantity)

	update := tote()
	update.ID = created.ID
	update.Name = "Canvas Tote XL"
	update.Quantity = 7
	update.ExistingImages = nil
	updated, err := svc.UpdateProduct(c, update, []string{"/uploads/b.png"})
	require.NoError(t, err)
	assert.Equal(t, "Canvas Tote XL", updated.Name)
	assert.Equal(
		t,
		[]string{"https://cdn.example.com/tote.jpg", "/uploads/a.png", "/uploads/b.png"},
		updated.Images,
		"update without images should keep the stored ones",
	)

	found, err = svc.FindProductById(c, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Canvas Tote XL", found.Name, "update should refresh the cache")

	_, err = svc.DeleteProduct(c, created.ID)
	require.NoError(t, err)
	_, err = svc.FindProductById(c, created.ID)
	assert.ErrorIs(t, err, inErrors.ErrNotFound)

	_, err = svc.DeleteProduct(c, created.ID)
	assert.ErrorIs(t, err, inErrors.ErrNotFound)
}

func TestFindProducts(t *testing.T) {
	c, svc, teardown := setup(t)
	defer teardown()

	for i, name := range []string{"Canvas Tote", "Leather Tote", "Mini Pouch"} {
		param := tote()
		param.Name = name
		param.Price = decimal.NewFromInt(int64(50 * (i + 1)))
		_, err := svc.InsertProduct(c, param, nil)
		require.NoError(t, err)
	}

	minPrice := decimal.NewFromInt(100)
	tests := []struct {
		name          string
		param         request.FindProducts
		expectedTotal int64
		expectedPages int
		expectedItems int
	}{
		{
			name:          "given no filter should list everything",
			param:         request.FindProducts{},
			expectedTotal: 3,
			expectedPages: 1,
			expectedItems: 3,
		},
		{
			name:          "given search should match names case insensitively",
			param:         request.FindProducts{Query: listing.Query{Search: "tote"}},
			expectedTotal: 2,
			expectedPages: 1,
			expectedItems: 2,
		},
		{
			name:          "given minimum price should drop cheaper products",
			param:         request.FindProducts{MinPrice: &minPrice},
			expectedTotal: 2,
			expectedPages: 1,
			expectedItems: 2,
		},
		{
			name:          "given limit should page the results",
			param:         request.FindProducts{Query: listing.Query{Page: 2, Limit: 2}},
			expectedTotal: 3,
			expectedPages: 2,
			expectedItems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.FindProducts(c, tt.param)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, page.Total)
			assert.Equal(t, tt.expectedPages, page.TotalPages)
			assert.Len(t, page.Items, tt.expectedItems)
		})
	}
}
