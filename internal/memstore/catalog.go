package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/category"
	categorydto "github.com/fekuna/omnipos-backoffice-service/internal/category/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/product"
	productdto "github.com/fekuna/omnipos-backoffice-service/internal/product/dto"
	"github.com/shopspring/decimal"
)

var (
	_ category.Repository = (*CategoryRepository)(nil)
	_ product.Repository  = (*ProductRepository)(nil)
)

type CategoryRepository struct{ s *Store }

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	defer r.s.lock(ctx)()
	row := *c
	row.Children = nil
	row.ProductsNumber = 0
	r.s.t.categories[c.ID] = row
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	defer r.s.lock(ctx)()
	c, ok := r.s.t.categories[id]
	if !ok {
		return nil, nil
	}
	c.ProductsNumber = r.productsNumber(id)
	return &c, nil
}

func (r *CategoryRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Category, error) {
	defer r.s.lock(ctx)()
	c, ok := r.s.t.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepository) productsNumber(id string) int {
	n := 0
	for _, p := range r.s.t.products {
		if deref(p.CategoryID) == id {
			n++
		}
	}
	return n
}

func (r *CategoryRepository) FindAll(ctx context.Context, f *categorydto.CategoryFilters) ([]model.Category, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Category{}
	for _, c := range r.s.t.categories {
		if f.ParentID != nil && deref(c.ParentID) != *f.ParentID {
			continue
		}
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		if f.Search != "" && !contains(c.Name, f.Search) && !contains(c.Slug, f.Search) {
			continue
		}
		c.ProductsNumber = r.productsNumber(c.ID)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.categories[c.ID]; !ok {
		return nil
	}
	row := *c
	row.Children = nil
	row.ProductsNumber = 0
	r.s.t.categories[c.ID] = row
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.categories, id)
	return nil
}

func (r *CategoryRepository) IsNameUnique(ctx context.Context, name, excludeID string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, c := range r.s.t.categories {
		if c.ID != excludeID && strings.EqualFold(c.Name, name) {
			return false, nil
		}
	}
	return true, nil
}

func (r *CategoryRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, c := range r.s.t.categories {
		if c.ID != excludeID && c.Slug == slug {
			return false, nil
		}
	}
	return true, nil
}

func (r *CategoryRepository) DetachChildren(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	now := time.Now()
	for k, c := range r.s.t.categories {
		if deref(c.ParentID) == id {
			c.ParentID = nil
			c.UpdatedAt = now
			r.s.t.categories[k] = c
		}
	}
	return nil
}

func (r *CategoryRepository) DetachProducts(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	now := time.Now()
	for k, p := range r.s.t.products {
		if deref(p.CategoryID) == id {
			p.CategoryID = nil
			p.UpdatedAt = now
			r.s.t.products[k] = p
		}
	}
	return nil
}

type ProductRepository struct{ s *Store }

func (s *Store) Products() *ProductRepository { return &ProductRepository{s: s} }

func storedProduct(p *model.Product) model.Product {
	row := *p
	row.Images = nil
	row.Stats = nil
	return row
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	defer r.s.lock(ctx)()
	r.s.t.products[p.ID] = storedProduct(p)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.t.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	defer r.s.lock(ctx)()
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := r.s.t.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) FindAll(ctx context.Context, f *productdto.ProductFilters) ([]model.Product, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Product{}
	for _, p := range r.s.t.products {
		if f.CategoryID != "" && deref(p.CategoryID) != f.CategoryID {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if f.SearchQuery != "" && !contains(p.Name, f.SearchQuery) && !contains(p.Slug, f.SearchQuery) &&
			!contains(deref(p.Description), f.SearchQuery) {
			continue
		}
		out = append(out, p)
	}

	desc := f.SortBy == "" || !strings.EqualFold(f.SortOrder, "asc")
	less := func(a, b model.Product) int {
		switch f.SortBy {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "price":
			return a.Price.Cmp(b.Price)
		case "stock":
			return a.Stock - b.Stock
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	sort.Slice(out, func(i, j int) bool {
		c := less(out[i], out[j])
		if c == 0 {
			return out[i].ID < out[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.t.products[p.ID]
	if !ok {
		return nil
	}
	row := storedProduct(p)
	row.Stock = existing.Stock
	r.s.t.products[p.ID] = row
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.products, id)
	return nil
}

func (r *ProductRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, p := range r.s.t.products {
		if p.ID != excludeID && p.Slug == slug {
			return false, nil
		}
	}
	return true, nil
}

func (r *ProductRepository) CategoryExists(ctx context.Context, categoryID string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.t.categories[categoryID]
	return ok, nil
}

func (r *ProductRepository) IsReferenced(ctx context.Context, id string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, l := range r.s.t.orderLines {
		if l.ProductID == id {
			return true, nil
		}
	}
	for _, l := range r.s.t.arrivalLines {
		if l.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRepository) DeleteDependents(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	for k, img := range r.s.t.images {
		if img.ProductID == id {
			delete(r.s.t.images, k)
		}
	}
	for k, rv := range r.s.t.reviews {
		if rv.ProductID == id {
			delete(r.s.t.reviews, k)
		}
	}
	for k, l := range r.s.t.likes {
		if l.ProductID == id {
			delete(r.s.t.likes, k)
		}
	}
	return nil
}

func (r *ProductRepository) AddImage(ctx context.Context, img *model.Image) error {
	defer r.s.lock(ctx)()
	r.s.t.images[img.ID] = *img
	return nil
}

func (r *ProductRepository) FindImageByID(ctx context.Context, id string) (*model.Image, error) {
	defer r.s.lock(ctx)()
	img, ok := r.s.t.images[id]
	if !ok {
		return nil, nil
	}
	return &img, nil
}

func (r *ProductRepository) ListImages(ctx context.Context, productID string) ([]model.Image, error) {
	defer r.s.lock(ctx)()
	out := []model.Image{}
	for _, img := range r.s.t.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ProductRepository) DeleteImage(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.images, id)
	return nil
}

func (r *ProductRepository) GetStats(ctx context.Context, ids []string) (map[string]model.ProductStats, error) {
	defer r.s.lock(ctx)()

	stats := make(map[string]model.ProductStats, len(ids))
	for _, id := range ids {
		if _, ok := r.s.t.products[id]; !ok {
			continue
		}
		st := model.ProductStats{SoldAmount: decimal.Zero}
		for _, l := range r.s.t.likes {
			if l.ProductID == id && l.Liked {
				st.LikesTotal++
			}
		}
		sum := 0
		for _, rv := range r.s.t.reviews {
			if rv.ProductID == id {
				st.ReviewsCount++
				sum += rv.Rate
			}
		}
		if st.ReviewsCount > 0 {
			st.ReviewsRate = float64(sum) / float64(st.ReviewsCount)
		}
		orders := map[string]bool{}
		for _, l := range r.s.t.orderLines {
			if l.ProductID != id || !r.s.t.orders[l.OrderID].Completed {
				continue
			}
			orders[l.OrderID] = true
			st.SoldAmount = st.SoldAmount.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		}
		st.OrdersCount = len(orders)
		stats[id] = st
	}
	return stats, nil
}
