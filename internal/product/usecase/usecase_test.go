package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/listcache"
	stockdto "github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	stockuc "github.com/fekuna/omnipos-backoffice-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memstore.Store
	uc    product.UseCase
	redis *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := miniredis.RunT(t)
	client, err := cache.NewRedisClient(&cache.Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	log := logger.NewNop()
	lc := listcache.New(client, time.Minute, log)
	s := memstore.New()
	stock := stockuc.NewStockUseCase(s.Stock(), s, lc, nil, log)
	return &fixture{
		store: s,
		uc:    NewProductUseCase(s.Products(), stock, s, lc, nil, "", log),
		redis: srv,
	}
}

func TestCreateProductLogsInitialStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name:   "Café Moulu",
		Price:  decimal.RequireFromString("4.50"),
		Stock:  12,
		UserID: "staff-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "cafe-moulu", p.Slug)
	assert.Equal(t, 12, p.Stock)
	assert.True(t, p.IsActive)

	movements, total, err := f.store.Stock().ListMovements(ctx, &stockdto.MovementFilters{ProductID: p.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, model.MovementAdjustment, movements[0].MovementType)
	assert.Equal(t, 12, movements[0].QuantityChange)

	_, err = f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Cafe moulu", Price: decimal.NewFromInt(1)})
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Field)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	inactive := false

	tests := []struct {
		name  string
		input dto.CreateProductInput
		field string
	}{
		{"no name", dto.CreateProductInput{Price: decimal.NewFromInt(1)}, "name"},
		{"negative price", dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(-1)}, "price"},
		{"three decimals", dto.CreateProductInput{Name: "a", Price: decimal.RequireFromString("1.005")}, "price"},
		{"negative stock", dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(1), Stock: -1}, "stock"},
		{"unknown category", dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(1), CategoryID: "ghost", IsActive: &inactive}, "category_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateProduct(context.Background(), &tt.input)
			var verr *apperror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, total, err := f.uc.ListProducts(context.Background(), &dto.ProductFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestListProductsIsCachedUntilWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, total, err := f.uc.ListProducts(ctx, &dto.ProductFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, f.redis.Keys(), 1)

	_, err = f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "b", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Empty(t, f.redis.Keys())

	products, total, err := f.uc.ListProducts(ctx, &dto.ProductFilters{SortBy: "name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "a", products[0].Name)
	require.NotNil(t, products[0].Stats)
}

func TestGetProductCarriesStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	fb := f.store.Feedback()
	require.NoError(t, fb.CreateReview(ctx, &model.Review{ID: "r1", ProductID: p.ID, Rate: 4}))
	require.NoError(t, fb.CreateReview(ctx, &model.Review{ID: "r2", ProductID: p.ID, Rate: 5}))
	_, err = fb.UpsertLike(ctx, &model.Like{ID: "l1", ProductID: p.ID, Email: "a@b.io", Liked: true})
	require.NoError(t, err)
	_, err = fb.UpsertLike(ctx, &model.Like{ID: "l2", ProductID: p.ID, Email: "c@d.io", Liked: false})
	require.NoError(t, err)

	got, err := f.uc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Stats)
	assert.Equal(t, 1, got.Stats.LikesTotal)
	assert.Equal(t, 2, got.Stats.ReviewsCount)
	assert.InDelta(t, 4.5, got.Stats.ReviewsRate, 1e-9)
	assert.Zero(t, got.Stats.OrdersCount)
	assert.True(t, got.Stats.SoldAmount.IsZero())

	_, err = f.uc.GetProduct(ctx, "ghost")
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateProductKeepsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(1), Stock: 3})
	require.NoError(t, err)

	_, err = f.uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: p.ID, Name: "Renamed", Price: decimal.NewFromInt(2), IsActive: false})
	require.NoError(t, err)

	got, err := f.uc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Slug)
	assert.Equal(t, 3, got.Stock)
	assert.False(t, got.IsActive)
	assert.True(t, decimal.NewFromInt(2).Equal(got.Price))

	_, err = f.uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "ghost", Name: "x", Price: decimal.NewFromInt(1)})
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	kept, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "kept", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	require.NoError(t, f.store.Arrivals().Create(ctx, &model.Arrival{BaseModel: model.BaseModel{ID: "a1"}}))
	require.NoError(t, f.store.Arrivals().UpsertLine(ctx, &model.ArrivalLine{ID: "al1", ArrivalID: "a1", ProductID: kept.ID, Quantity: 1}))

	err = f.uc.DeleteProduct(ctx, kept.ID)
	var serr *apperror.InvalidStateError
	require.ErrorAs(t, err, &serr)

	gone, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "gone", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)
	img, err := f.uc.AddImage(ctx, &dto.AddImageInput{ProductID: gone.ID, URL: "https://cdn.example.com/gone.png"})
	require.NoError(t, err)
	assert.Equal(t, "gone", img.Name)

	require.NoError(t, f.uc.DeleteProduct(ctx, gone.ID))
	assert.True(t, apperror.IsNotFound(f.uc.DeleteImage(ctx, img.ID)))
	assert.True(t, apperror.IsNotFound(f.uc.DeleteProduct(ctx, gone.ID)))
}

func TestImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "a", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	for _, bad := range []string{"", "not a url", "/relative.png", "ftp://host/x.png"} {
		_, err := f.uc.AddImage(ctx, &dto.AddImageInput{ProductID: p.ID, URL: bad})
		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr, bad)
		assert.Equal(t, "url", verr.Field)
	}

	_, err = f.uc.AddImage(ctx, &dto.AddImageInput{ProductID: "ghost", URL: "https://x.io/a.png"})
	assert.True(t, apperror.IsNotFound(err))

	img, err := f.uc.AddImage(ctx, &dto.AddImageInput{ProductID: p.ID, Name: "front", URL: "https://x.io/a.png"})
	require.NoError(t, err)
	images, err := f.uc.ListImages(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "front", images[0].Name)

	require.NoError(t, f.uc.DeleteImage(ctx, img.ID))
	images, err = f.uc.ListImages(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}
