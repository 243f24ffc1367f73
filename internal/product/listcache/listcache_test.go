package listcache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCacheRoundTripAndInvalidate(t *testing.T) {
	srv := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: srv.Addr()})
	require.NoError(t, err)
	defer client.Close()

	c := New(client, time.Minute, logger.NewNop())
	ctx := context.Background()
	filters := &dto.ProductFilters{CategoryID: "c1", Page: 1, PageSize: 10}

	_, ok := c.Get(ctx, filters)
	assert.False(t, ok)

	p := model.Product{Name: "Lamp", Price: decimal.RequireFromString("12.50"), Stock: 3}
	p.ID = "p1"
	c.Set(ctx, filters, &Page{Products: []model.Product{p}, Count: 1})

	page, ok := c.Get(ctx, filters)
	require.True(t, ok)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "Lamp", page.Products[0].Name)
	assert.True(t, page.Products[0].Price.Equal(decimal.RequireFromString("12.5")))

	_, ok = c.Get(ctx, &dto.ProductFilters{CategoryID: "c2"})
	assert.False(t, ok)

	c.Invalidate(ctx)
	_, ok = c.Get(ctx, filters)
	assert.False(t, ok)
}

func TestNilListCache(t *testing.T) {
	var c *ListCache
	ctx := context.Background()

	c.Set(ctx, &dto.ProductFilters{}, &Page{})
	c.Invalidate(ctx)
	_, ok := c.Get(ctx, &dto.ProductFilters{})
	assert.False(t, ok)
}
