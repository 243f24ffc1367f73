package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/arrival"
	arrivaldto "github.com/fekuna/omnipos-backoffice-service/internal/arrival/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	coupondto "github.com/fekuna/omnipos-backoffice-service/internal/coupon/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	stockdto "github.com/fekuna/omnipos-backoffice-service/internal/stock/dto"
)

var (
	_ stock.Repository   = (*StockRepository)(nil)
	_ coupon.Repository  = (*CouponRepository)(nil)
	_ arrival.Repository = (*ArrivalRepository)(nil)
)

type StockRepository struct{ s *Store }

func (s *Store) Stock() *StockRepository { return &StockRepository{s: s} }

func (r *StockRepository) LockProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	defer r.s.lock(ctx)()
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := r.s.t.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *StockRepository) SetStock(ctx context.Context, productID string, stock int, updatedAt time.Time) error {
	defer r.s.lock(ctx)()
	p, ok := r.s.t.products[productID]
	if !ok {
		return nil
	}
	p.Stock = stock
	p.UpdatedAt = updatedAt
	r.s.t.products[productID] = p
	return nil
}

func (r *StockRepository) LogMovement(ctx context.Context, m *model.StockMovement) error {
	defer r.s.lock(ctx)()
	r.s.t.movements[m.ID] = *m
	return nil
}

func (r *StockRepository) ListMovements(ctx context.Context, f *stockdto.MovementFilters) ([]model.StockMovement, int, error) {
	defer r.s.lock(ctx)()

	out := []model.StockMovement{}
	for _, m := range r.s.t.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.ReferenceType != "" && deref(m.ReferenceType) != f.ReferenceType {
			continue
		}
		if f.ReferenceID != "" && deref(m.ReferenceID) != f.ReferenceID {
			continue
		}
		if f.StartDate != nil && m.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !m.CreatedAt.Before(*f.EndDate) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

type CouponRepository struct{ s *Store }

func (s *Store) Coupons() *CouponRepository { return &CouponRepository{s: s} }

func (r *CouponRepository) Create(ctx context.Context, c *model.Coupon) error {
	defer r.s.lock(ctx)()
	r.s.t.coupons[c.ID] = *c
	return nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id string) (*model.Coupon, error) {
	defer r.s.lock(ctx)()
	c, ok := r.s.t.coupons[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	defer r.s.lock(ctx)()
	for _, c := range r.s.t.coupons {
		if c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CouponRepository) LockByID(ctx context.Context, id string) (*model.Coupon, error) {
	return r.FindByID(ctx, id)
}

func (r *CouponRepository) FindAll(ctx context.Context, f *coupondto.CouponFilters) ([]model.Coupon, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Coupon{}
	for _, c := range r.s.t.coupons {
		if f.CouponTypeID != "" && deref(c.CouponTypeID) != f.CouponTypeID {
			continue
		}
		if f.IsValid != nil && c.IsValid != *f.IsValid {
			continue
		}
		if f.Search != "" && !contains(c.Code, f.Search) && !contains(c.Description, f.Search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *CouponRepository) Update(ctx context.Context, c *model.Coupon) error {
	defer r.s.lock(ctx)()
	existing, ok := r.s.t.coupons[c.ID]
	if !ok {
		return nil
	}
	row := *c
	row.UsageCount = existing.UsageCount
	r.s.t.coupons[c.ID] = row
	return nil
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	delete(r.s.t.coupons, id)
	return nil
}

func (r *CouponRepository) IsCodeUnique(ctx context.Context, code, excludeID string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, c := range r.s.t.coupons {
		if c.ID != excludeID && c.Code == code {
			return false, nil
		}
	}
	return true, nil
}

func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	c, ok := r.s.t.coupons[id]
	if !ok || c.UsageCount >= c.MaxUsage {
		return coupon.ErrUsageExhausted
	}
	c.UsageCount++
	c.UpdatedAt = time.Now()
	r.s.t.coupons[id] = c
	return nil
}

func (r *CouponRepository) CreateType(ctx context.Context, t *model.CouponType) error {
	defer r.s.lock(ctx)()
	r.s.t.couponTypes[t.ID] = *t
	return nil
}

func (r *CouponRepository) FindTypeByID(ctx context.Context, id string) (*model.CouponType, error) {
	defer r.s.lock(ctx)()
	t, ok := r.s.t.couponTypes[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *CouponRepository) IsTypeNameUnique(ctx context.Context, name string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, t := range r.s.t.couponTypes {
		if strings.EqualFold(t.Name, name) {
			return false, nil
		}
	}
	return true, nil
}

func (r *CouponRepository) ListTypes(ctx context.Context) ([]model.CouponType, error) {
	defer r.s.lock(ctx)()
	out := []model.CouponType{}
	for _, t := range r.s.t.couponTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CouponRepository) DeleteType(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	for k, c := range r.s.t.coupons {
		if deref(c.CouponTypeID) == id {
			c.CouponTypeID = nil
			r.s.t.coupons[k] = c
		}
	}
	delete(r.s.t.couponTypes, id)
	return nil
}

type ArrivalRepository struct{ s *Store }

func (s *Store) Arrivals() *ArrivalRepository { return &ArrivalRepository{s: s} }

func (r *ArrivalRepository) Create(ctx context.Context, a *model.Arrival) error {
	defer r.s.lock(ctx)()
	row := *a
	row.Lines = nil
	r.s.t.arrivals[a.ID] = row
	return nil
}

func (r *ArrivalRepository) FindByID(ctx context.Context, id string) (*model.Arrival, error) {
	defer r.s.lock(ctx)()
	a, ok := r.s.t.arrivals[id]
	if !ok {
		return nil, nil
	}
	a.Lines = r.lines(id)
	return &a, nil
}

func (r *ArrivalRepository) LockByID(ctx context.Context, id string) (*model.Arrival, error) {
	return r.FindByID(ctx, id)
}

func (r *ArrivalRepository) lines(arrivalID string) []model.ArrivalLine {
	out := []model.ArrivalLine{}
	for _, l := range r.s.t.arrivalLines {
		if l.ArrivalID == arrivalID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (r *ArrivalRepository) FindAll(ctx context.Context, f *arrivaldto.ArrivalFilters) ([]model.Arrival, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Arrival{}
	for _, a := range r.s.t.arrivals {
		if f.IsClosed != nil && a.IsClosed != *f.IsClosed {
			continue
		}
		a.Lines = r.lines(a.ID)
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *ArrivalRepository) MarkClosed(ctx context.Context, id string, closedAt time.Time) error {
	defer r.s.lock(ctx)()
	a, ok := r.s.t.arrivals[id]
	if !ok {
		return nil
	}
	a.IsClosed = true
	a.ClosedAt = &closedAt
	a.UpdatedAt = closedAt
	r.s.t.arrivals[id] = a
	return nil
}

func (r *ArrivalRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	for k, l := range r.s.t.arrivalLines {
		if l.ArrivalID == id {
			delete(r.s.t.arrivalLines, k)
		}
	}
	delete(r.s.t.arrivals, id)
	return nil
}

func (r *ArrivalRepository) UpsertLine(ctx context.Context, line *model.ArrivalLine) error {
	defer r.s.lock(ctx)()
	for k, l := range r.s.t.arrivalLines {
		if l.ArrivalID == line.ArrivalID && l.ProductID == line.ProductID {
			l.Quantity = line.Quantity
			r.s.t.arrivalLines[k] = l
			return nil
		}
	}
	r.s.t.arrivalLines[line.ID] = *line
	return nil
}

func (r *ArrivalRepository) DeleteLine(ctx context.Context, arrivalID, productID string) error {
	defer r.s.lock(ctx)()
	for k, l := range r.s.t.arrivalLines {
		if l.ArrivalID == arrivalID && l.ProductID == productID {
			delete(r.s.t.arrivalLines, k)
		}
	}
	return nil
}

func (r *ArrivalRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	defer r.s.lock(ctx)()
	_, ok := r.s.t.products[productID]
	return ok, nil
}
