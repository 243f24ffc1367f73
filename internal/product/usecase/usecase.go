package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/apperror"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/product"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/listcache"
	"github.com/fekuna/omnipos-backoffice-service/internal/slug"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	stockdto "github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/fekuna/omnipos-backoffice-service/pkg/search"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxNameLength = 200

type productUseCase struct {
	repo    product.Repository
	stock   stock.UseCase
	tx      platform.Transactor
	cache   *listcache.ListCache
	es      *search.Client
	esIndex string
	logger  logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	stockUC stock.UseCase,
	tx platform.Transactor,
	cache *listcache.ListCache,
	es *search.Client,
	esIndex string,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:    repo,
		stock:   stockUC,
		tx:      tx,
		cache:   cache,
		es:      es,
		esIndex: esIndex,
		logger:  log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	name, productSlug, err := normalize(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}
	if input.Stock < 0 {
		return nil, apperror.Validation("stock", "must not be negative")
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:  optional(input.CategoryID),
		Name:        name,
		Slug:        productSlug,
		Description: optional(input.Description),
		Price:       input.Price,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.checkRefs(ctx, p); err != nil {
			return err
		}
		if err := uc.repo.Create(ctx, p); err != nil {
			return err
		}
		if input.Stock == 0 {
			return nil
		}
		_, err := uc.stock.ApplyChanges(ctx, &stockdto.ApplyChangesInput{
			Changes:       []stockdto.StockChange{{ProductID: p.ID, Delta: input.Stock}},
			MovementType:  model.MovementAdjustment,
			ReferenceType: "manual",
			Notes:         "initial stock",
			UserID:        input.UserID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	p.Stock = input.Stock

	uc.cache.Invalidate(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}

	p.Images, err = uc.repo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := uc.repo.GetStats(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	s := stats[id]
	p.Stats = &s
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if page, ok := uc.cache.Get(ctx, filters); ok {
		return page.Products, page.Count, nil
	}

	var (
		products []model.Product
		count    int
		err      error
		searched bool
	)
	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err = uc.search(ctx, filters)
		if err == nil {
			searched = true
		} else {
			uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
		}
	}
	if !searched {
		products, count, err = uc.repo.FindAll(ctx, filters)
		if err != nil {
			return nil, 0, err
		}
	}

	if err := uc.attachStats(ctx, products); err != nil {
		return nil, 0, err
	}

	uc.cache.Set(ctx, filters, &listcache.Page{Products: products, Count: count})
	return products, count, nil
}

func (uc *productUseCase) attachStats(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	stats, err := uc.repo.GetStats(ctx, ids)
	if err != nil {
		return err
	}
	for i := range products {
		s := stats[products[i].ID]
		products[i].Stats = &s
	}
	return nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	name, productSlug, err := normalize(input.Name, input.Slug)
	if err != nil {
		return nil, err
	}
	if err := checkPrice(input.Price); err != nil {
		return nil, err
	}

	var p *model.Product
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err = uc.repo.FindByID(ctx, input.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("product", input.ID)
		}

		p.CategoryID = optional(input.CategoryID)
		p.Name = name
		p.Slug = productSlug
		p.Description = optional(input.Description)
		p.Price = input.Price
		p.IsActive = input.IsActive
		p.UpdatedAt = time.Now()

		if err := uc.checkRefs(ctx, p); err != nil {
			return err
		}
		return uc.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound("product", id)
		}

		// Order and arrival lines keep their history; such products can only be disabled.
		referenced, err := uc.repo.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.InvalidState("product", "referenced by orders or arrivals", "delete")
		}

		if err := uc.repo.DeleteDependents(ctx, id); err != nil {
			return err
		}
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.cache.Invalidate(ctx)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), uc.esIndex, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.Error(err))
			}
		}()
	}
	return nil
}

func (uc *productUseCase) AddImage(ctx context.Context, input *dto.AddImageInput) (*model.Image, error) {
	u, err := url.Parse(strings.TrimSpace(input.URL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, apperror.Validation("url", "%q is not an absolute http(s) URL", input.URL)
	}

	p, err := uc.repo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", input.ProductID)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = p.Name
	}

	img := &model.Image{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		Name:      name,
		URL:       u.String(),
		CreatedAt: time.Now(),
	}
	if err := uc.repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (uc *productUseCase) ListImages(ctx context.Context, productID string) ([]model.Image, error) {
	return uc.repo.ListImages(ctx, productID)
}

func (uc *productUseCase) DeleteImage(ctx context.Context, id string) error {
	img, err := uc.repo.FindImageByID(ctx, id)
	if err != nil {
		return err
	}
	if img == nil {
		return apperror.NotFound("image", id)
	}
	return uc.repo.DeleteImage(ctx, id)
}

func (uc *productUseCase) checkRefs(ctx context.Context, p *model.Product) error {
	if p.CategoryID != nil {
		ok, err := uc.repo.CategoryExists(ctx, *p.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.Validation("category_id", "category %s does not exist", *p.CategoryID)
		}
	}

	unique, err := uc.repo.IsSlugUnique(ctx, p.Slug, p.ID)
	if err != nil {
		return err
	}
	if !unique {
		return apperror.Validation("slug", "slug %q is already used", p.Slug)
	}
	return nil
}

type productDocument struct {
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	doc := productDocument{
		Name:      p.Name,
		Slug:      p.Slug,
		IsActive:  p.IsActive,
		Price:     p.Price.InexactFloat64(),
		CreatedAt: p.CreatedAt,
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	if p.CategoryID != nil {
		doc.CategoryID = *p.CategoryID
	}
	if err := uc.es.Index(ctx, uc.esIndex, p.ID, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

// search resolves matching ids in Elasticsearch, then loads the rows so
// stock and prices always come from the database.
func (uc *productUseCase) search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":     filters.SearchQuery,
				"fields":    []string{"name^3", "slug", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	filter := []map[string]interface{}{}
	if filters.CategoryID != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}
	if filters.IsActive != nil {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"_source": false,
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, uc.esIndex, q)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	rows, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]model.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
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

func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return apperror.Validation("price", "must not be negative")
	}
	if !price.Equal(price.Round(2)) {
		return apperror.Validation("price", "must have at most two decimals")
	}
	return nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
