package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/internal/delivery"
	deliverydto "github.com/fekuna/omnipos-backoffice-service/internal/delivery/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/model"
	"github.com/fekuna/omnipos-backoffice-service/internal/order"
	orderdto "github.com/fekuna/omnipos-backoffice-service/internal/order/dto"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment"
	paymentdto "github.com/fekuna/omnipos-backoffice-service/internal/payment/dto"
)

var (
	_ order.Repository     = (*OrderRepository)(nil)
	_ order.DeliveryReader = (*DeliveryRepository)(nil)
	_ delivery.Repository  = (*DeliveryRepository)(nil)
	_ delivery.OrderReader = (*OrderRepository)(nil)
	_ payment.Repository   = (*PaymentRepository)(nil)
)

type OrderRepository struct{ s *Store }

func (s *Store) Orders() *OrderRepository { return &OrderRepository{s: s} }

func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	defer r.s.lock(ctx)()
	row := *o
	row.Lines = nil
	row.Totals = nil
	r.s.t.orders[o.ID] = row
	for _, l := range o.Lines {
		r.s.t.orderLines[l.ID] = l
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	defer r.s.lock(ctx)()
	o, ok := r.s.t.orders[id]
	if !ok {
		return nil, nil
	}
	o.Lines = r.lines(id)
	return &o, nil
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*model.Order, error) {
	defer r.s.lock(ctx)()
	for _, o := range r.s.t.orders {
		if o.Reference == reference {
			o.Lines = r.lines(o.ID)
			return &o, nil
		}
	}
	return nil, nil
}

func (r *OrderRepository) LockByID(ctx context.Context, id string) (*model.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *OrderRepository) lines(orderID string) []model.OrderLine {
	out := []model.OrderLine{}
	for _, l := range r.s.t.orderLines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (r *OrderRepository) FindAll(ctx context.Context, f *orderdto.OrderFilters) ([]model.Order, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Order{}
	for _, o := range r.s.t.orders {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.Completed != nil && o.Completed != *f.Completed {
			continue
		}
		if f.Reference != "" && !strings.HasPrefix(o.Reference, f.Reference) {
			continue
		}
		if f.CouponID != "" && deref(o.CouponID) != f.CouponID {
			continue
		}
		o.Lines = r.lines(o.ID)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *OrderRepository) IsReferenceUnique(ctx context.Context, reference string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, o := range r.s.t.orders {
		if o.Reference == reference {
			return false, nil
		}
	}
	return true, nil
}

func (r *OrderRepository) MarkCompleted(ctx context.Context, id string, completedAt time.Time) error {
	defer r.s.lock(ctx)()
	o, ok := r.s.t.orders[id]
	if !ok {
		return nil
	}
	o.Completed = true
	o.CompletedAt = &completedAt
	o.UpdatedAt = completedAt
	r.s.t.orders[id] = o
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	for k, d := range r.s.t.deliveries {
		if d.OrderID == id {
			delete(r.s.t.deliveries, k)
		}
	}
	for k, l := range r.s.t.orderLines {
		if l.OrderID == id {
			delete(r.s.t.orderLines, k)
		}
	}
	delete(r.s.t.orders, id)
	return nil
}

func (r *OrderRepository) FindProducts(ctx context.Context, ids []string) ([]model.Product, error) {
	return r.s.Products().FindByIDs(ctx, ids)
}

type DeliveryRepository struct{ s *Store }

func (s *Store) Deliveries() *DeliveryRepository { return &DeliveryRepository{s: s} }

func (r *DeliveryRepository) Create(ctx context.Context, d *model.Delivery) error {
	defer r.s.lock(ctx)()
	r.s.t.deliveries[d.ID] = *d
	return nil
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*model.Delivery, error) {
	defer r.s.lock(ctx)()
	d, ok := r.s.t.deliveries[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DeliveryRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	defer r.s.lock(ctx)()
	for _, d := range r.s.t.deliveries {
		if d.OrderID == orderID {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *DeliveryRepository) LockByOrderID(ctx context.Context, orderID string) (*model.Delivery, error) {
	return r.FindByOrderID(ctx, orderID)
}

func (r *DeliveryRepository) LockByID(ctx context.Context, id string) (*model.Delivery, error) {
	return r.FindByID(ctx, id)
}

func (r *DeliveryRepository) FindAll(ctx context.Context, f *deliverydto.DeliveryFilters) ([]model.Delivery, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Delivery{}
	for _, d := range r.s.t.deliveries {
		if f.OrderID != "" && d.OrderID != f.OrderID {
			continue
		}
		if f.State != "" && d.State != f.State {
			continue
		}
		if f.City != "" && !strings.EqualFold(d.City, f.City) {
			continue
		}
		if f.DeliveredBy != "" && deref(d.DeliveredBy) != f.DeliveredBy {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}

func (r *DeliveryRepository) Update(ctx context.Context, d *model.Delivery) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.t.deliveries[d.ID]; ok {
		r.s.t.deliveries[d.ID] = *d
	}
	return nil
}

type PaymentRepository struct{ s *Store }

func (s *Store) Payments() *PaymentRepository { return &PaymentRepository{s: s} }

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	defer r.s.lock(ctx)()
	r.s.t.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.t.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*model.Payment, error) {
	return r.findBy(ctx, func(p model.Payment) bool { return p.Reference == reference })
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return r.findBy(ctx, func(p model.Payment) bool { return p.OrderID == orderID })
}

func (r *PaymentRepository) findBy(ctx context.Context, match func(model.Payment) bool) (*model.Payment, error) {
	defer r.s.lock(ctx)()
	for _, p := range r.s.t.payments {
		if match(p) {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PaymentRepository) FindAll(ctx context.Context, f *paymentdto.PaymentFilters) ([]model.Payment, int, error) {
	defer r.s.lock(ctx)()

	out := []model.Payment{}
	for _, p := range r.s.t.payments {
		if f.OrderID != "" && p.OrderID != f.OrderID {
			continue
		}
		if f.Mode != "" && p.Mode != f.Mode {
			continue
		}
		if f.StartDate != nil && p.PayedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && p.PayedAt.After(*f.EndDate) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PayedAt.Equal(out[j].PayedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].PayedAt.After(out[j].PayedAt)
	})
	return page(out, f.Page, f.PageSize), len(out), nil
}
