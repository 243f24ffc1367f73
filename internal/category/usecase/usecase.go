package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/category"
	"github.com/fekuna/omnipos-backoffice-service/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/slug"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxNameLength = 100

type categoryUseCase struct {
	repo   category.Repository
	tx     platform.Transactor
	cache  platform.CacheInvalidator
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, tx platform.Transactor, cache platform.CacheInvalidator, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		tx:     tx,
		cache:  cache,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name, catSlug, err := normalize(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID: emptyToNil(input.ParentID),
		Name:     name,
		Slug:     catSlug,
		ImageURL: optional(input.ImageURL),
		IsActive: input.IsActive == nil || *input.IsActive,
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if cat.ParentID != nil {
			parent, err := uc.repo.FindByID(ctx, *cat.ParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return apperror.Validation("parent_id", "category %s does not exist", *cat.ParentID)
			}
		}
		if err := uc.checkUnique(ctx, cat); err != nil {
			return err
		}
		return uc.repo.Create(ctx, cat)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("category created", zap.String("id", cat.ID), zap.String("slug", cat.Slug))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NotFound("category", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	categories, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	if !filters.IncludeChildren || len(categories) == 0 {
		return categories, count, nil
	}

	all, _, err := uc.repo.FindAll(ctx, &dto.CategoryFilters{IsActive: filters.IsActive})
	if err != nil {
		return nil, 0, err
	}
	children := make(map[string][]model.Category)
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	for i := range categories {
		attachChildren(&categories[i], children, map[string]bool{})
	}
	return categories, count, nil
}

func attachChildren(c *model.Category, children map[string][]model.Category, seen map[string]bool) {
	if seen[c.ID] {
		return
	}
	seen[c.ID] = true
	c.Children = append([]model.Category(nil), children[c.ID]...)
	for i := range c.Children {
		attachChildren(&c.Children[i], children, seen)
	}
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	name, catSlug, err := normalize(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}

	var cat *model.Category
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		cat, err = uc.repo.FindByIDForUpdate(ctx, input.ID)
		if err != nil {
			return err
		}
		if cat == nil {
			return apperror.NotFound("category", input.ID)
		}

		cat.ParentID = emptyToNil(input.ParentID)
		cat.Name = name
		cat.Slug = catSlug
		cat.ImageURL = optional(input.ImageURL)
		cat.IsActive = input.IsActive
		cat.UpdatedAt = time.Now()

		if err := uc.checkParent(ctx, cat); err != nil {
			return err
		}
		if err := uc.checkUnique(ctx, cat); err != nil {
			return err
		}
		return uc.repo.Update(ctx, cat)
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// checkParent walks up from the new parent and rejects the assignment when
// it reaches cat itself. Every visited row is locked so two concurrent
// reassignments cannot close a loop between them.
func (uc *categoryUseCase) checkParent(ctx context.Context, cat *model.Category) error {
	if cat.ParentID == nil {
		return nil
	}
	if *cat.ParentID == cat.ID {
		return apperror.Validation("parent_id", "a category cannot be its own parent")
	}

	seen := map[string]bool{}
	for current := *cat.ParentID; current != ""; {
		if current == cat.ID {
			return apperror.Validation("parent_id", "category %s is a descendant of %s", *cat.ParentID, cat.ID)
		}
		if seen[current] {
			return nil
		}
		seen[current] = true

		node, err := uc.repo.FindByIDForUpdate(ctx, current)
		if err != nil {
			return err
		}
		if node == nil {
			if current == *cat.ParentID {
				return apperror.Validation("parent_id", "category %s does not exist", current)
			}
			return nil
		}
		current = ""
		if node.ParentID != nil {
			current = *node.ParentID
		}
	}
	return nil
}

func (uc *categoryUseCase) checkUnique(ctx context.Context, cat *model.Category) error {
	ok, err := uc.repo.IsNameUnique(ctx, cat.Name, cat.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Validation("name", "category %q already exists", cat.Name)
	}

	ok, err = uc.repo.IsSlugUnique(ctx, cat.Slug, cat.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.Validation("slug", "slug %q is already used", cat.Slug)
	}
	return nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		cat, err := uc.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cat == nil {
			return apperror.NotFound("category", id)
		}
		if err := uc.repo.DetachChildren(ctx, id); err != nil {
			return err
		}
		if err := uc.repo.DetachProducts(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
	uc.logger.Info("category deleted", zap.String("id", id))
	return nil
}

func normalize(name, given string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", apperror.Validation("name", "is required")
	}
	if len(name) > maxNameLength {
		return "", "", apperror.Validation("name", "must be at most %d characters", maxNameLength)
	}
	s, err := slug.Resolve(strings.TrimSpace(given), name)
	if err != nil {
		return "", "", err
	}
	return name, s, nil
}

func emptyToNil(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
