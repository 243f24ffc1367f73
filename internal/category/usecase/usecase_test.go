package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/category"
	"github.com/fekuna/omnipos-backoffice-service/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct{ calls int }

func (c *countingCache) Invalidate(ctx context.Context) { c.calls++ }

func newUseCase(t *testing.T) (category.UseCase, *memstore.Store, *countingCache) {
	t.Helper()
	s := memstore.New()
	cache := &countingCache{}
	return NewCategoryUseCase(s.Categories(), s, cache, logger.NewNop()), s, cache
}

func create(t *testing.T, uc category.UseCase, name string, parentID *string) *model.Category {
	t.Helper()
	c, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: name, ParentID: parentID})
	require.NoError(t, err)
	return c
}

func assertValidation(t *testing.T, err error, field string) {
	t.Helper()
	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, field, verr.Field)
}

func TestCreateCategoryDerivesSlug(t *testing.T) {
	uc, _, _ := newUseCase(t)

	c := create(t, uc, "  Électroménager & Cuisine ", nil)
	assert.Equal(t, "Électroménager & Cuisine", c.Name)
	assert.Equal(t, "electromenager-cuisine", c.Slug)
	assert.True(t, c.IsActive)
	assert.Nil(t, c.ParentID)
}

func TestCreateCategoryRejectsDuplicates(t *testing.T) {
	uc, _, _ := newUseCase(t)
	create(t, uc, "Shoes", nil)

	_, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "shoes", Slug: "other"})
	assertValidation(t, err, "name")

	_, err = uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Boots", Slug: "shoes"})
	assertValidation(t, err, "slug")

	_, err = uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "   "})
	assertValidation(t, err, "name")
}

func TestCreateCategoryUnknownParent(t *testing.T) {
	uc, _, _ := newUseCase(t)
	ghost := "ghost"

	_, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Shoes", ParentID: &ghost})
	assertValidation(t, err, "parent_id")
}

func TestUpdateCategoryRejectsCycles(t *testing.T) {
	uc, _, _ := newUseCase(t)
	root := create(t, uc, "Root", nil)
	mid := create(t, uc, "Mid", &root.ID)
	leaf := create(t, uc, "Leaf", &mid.ID)

	_, err := uc.UpdateCategory(context.Background(), &dto.UpdateCategoryInput{
		ID: root.ID, ParentID: &leaf.ID, Name: root.Name, IsActive: true,
	})
	assertValidation(t, err, "parent_id")

	_, err = uc.UpdateCategory(context.Background(), &dto.UpdateCategoryInput{
		ID: mid.ID, ParentID: &mid.ID, Name: mid.Name, IsActive: true,
	})
	assertValidation(t, err, "parent_id")

	got, err := uc.GetCategory(context.Background(), root.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	// Moving the leaf to the root level is fine.
	moved, err := uc.UpdateCategory(context.Background(), &dto.UpdateCategoryInput{
		ID: leaf.ID, Name: "Leaf", IsActive: false,
	})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
	assert.False(t, moved.IsActive)
}

func TestListCategoriesWithChildren(t *testing.T) {
	uc, _, _ := newUseCase(t)
	root := create(t, uc, "Root", nil)
	mid := create(t, uc, "Mid", &root.ID)
	create(t, uc, "Leaf", &mid.ID)
	create(t, uc, "Other", nil)

	rootsOnly := ""
	roots, total, err := uc.ListCategories(context.Background(), &dto.CategoryFilters{
		ParentID: &rootsOnly, IncludeChildren: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, roots, 2)
	assert.Equal(t, "Other", roots[0].Name)
	assert.Equal(t, "Root", roots[1].Name)
	require.Len(t, roots[1].Children, 1)
	require.Len(t, roots[1].Children[0].Children, 1)
	assert.Equal(t, "Leaf", roots[1].Children[0].Children[0].Name)
}

func TestDeleteCategoryDetachesChildrenAndProducts(t *testing.T) {
	uc, s, cache := newUseCase(t)
	ctx := context.Background()
	parent := create(t, uc, "Parent", nil)
	child := create(t, uc, "Child", &parent.ID)
	require.NoError(t, s.Products().Create(ctx, &model.Product{
		BaseModel:  model.BaseModel{ID: "p1"},
		CategoryID: &parent.ID,
		Name:       "Shoe",
		Slug:       "shoe",
		Price:      decimal.NewFromInt(5),
	}))

	require.NoError(t, uc.DeleteCategory(ctx, parent.ID))
	assert.Equal(t, 1, cache.calls)

	_, err := uc.GetCategory(ctx, parent.ID)
	assert.True(t, apperror.IsNotFound(err))

	got, err := uc.GetCategory(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	p, err := s.Products().FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p.CategoryID)

	assert.True(t, apperror.IsNotFound(uc.DeleteCategory(ctx, parent.ID)))
}
