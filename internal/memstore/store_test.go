package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newProduct(id string, stock int) *model.Product {
	return &model.Product{
		BaseModel: model.BaseModel{ID: id},
		Name:      id,
		Slug:      id,
		Price:     decimal.NewFromInt(10),
		Stock:     stock,
		IsActive:  true,
	}
}

func TestWithinTxCommits(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		return s.Products().Create(ctx, newProduct("p1", 3))
	})
	require.NoError(t, err)

	p, err := s.Products().FindByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 3, p.Stock)
}

func TestWithinTxRollsBackEveryWrite(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, newProduct("p1", 3)))

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.Stock().SetStock(ctx, "p1", 0, fixedTime); err != nil {
			return err
		}
		if err := s.Products().Create(ctx, newProduct("p2", 1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().FindByID(ctx, "p1")
	assert.Equal(t, 3, p.Stock)
	missing, _ := s.Products().FindByID(ctx, "p2")
	assert.Nil(t, missing)
}

func TestNestedWithinTxJoinsOuter(t *testing.T) {
	s := New()
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		inner := s.WithinTx(ctx, func(ctx context.Context) error {
			return s.Products().Create(ctx, newProduct("p1", 1))
		})
		require.NoError(t, inner)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, _ := s.Products().FindByID(ctx, "p1")
	assert.Nil(t, p, "inner writes are undone with the outer unit")
}

func TestTransactionsAreSerialized(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, newProduct("p1", 0)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WithinTx(ctx, func(ctx context.Context) error {
				products, err := s.Stock().LockProducts(ctx, []string{"p1"})
				if err != nil {
					return err
				}
				return s.Stock().SetStock(ctx, "p1", products[0].Stock+1, fixedTime)
			})
		}()
	}
	wg.Wait()

	p, _ := s.Products().FindByID(ctx, "p1")
	assert.Equal(t, 50, p.Stock)
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, page(items, 1, 0))
	assert.Equal(t, []int{3, 4}, page(items, 2, 2))
	assert.Equal(t, []int{5}, page(items, 3, 2))
	assert.Empty(t, page(items, 4, 2))
	assert.Equal(t, []int{1, 2}, page(items, 0, 2))
}
