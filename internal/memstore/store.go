// Package memstore keeps every back-office table in process memory. It
// backs the "memory" storage driver and the use case tests.
package memstore

import (
	"context"
	"strings"
	"sync"

	"github.com/fekuna/omnipos-backoffice-service/internal/model"
)

type txKey struct{}

type tables struct {
	categories   map[string]model.Category
	products     map[string]model.Product
	images       map[string]model.Image
	movements    map[string]model.StockMovement
	couponTypes  map[string]model.CouponType
	coupons      map[string]model.Coupon
	arrivals     map[string]model.Arrival
	arrivalLines map[string]model.ArrivalLine
	orders       map[string]model.Order
	orderLines   map[string]model.OrderLine
	deliveries   map[string]model.Delivery
	payments     map[string]model.Payment
	reviews      map[string]model.Review
	likes        map[string]model.Like
	alerts       map[string]model.Alert
	faqs         map[string]model.Faq
}

func newTables() tables {
	return tables{
		categories:   map[string]model.Category{},
		products:     map[string]model.Product{},
		images:       map[string]model.Image{},
		movements:    map[string]model.StockMovement{},
		couponTypes:  map[string]model.CouponType{},
		coupons:      map[string]model.Coupon{},
		arrivals:     map[string]model.Arrival{},
		arrivalLines: map[string]model.ArrivalLine{},
		orders:       map[string]model.Order{},
		orderLines:   map[string]model.OrderLine{},
		deliveries:   map[string]model.Delivery{},
		payments:     map[string]model.Payment{},
		reviews:      map[string]model.Review{},
		likes:        map[string]model.Like{},
		alerts:       map[string]model.Alert{},
		faqs:         map[string]model.Faq{},
	}
}

func (t *tables) clone() tables {
	return tables{
		categories:   cloneMap(t.categories),
		products:     cloneMap(t.products),
		images:       cloneMap(t.images),
		movements:    cloneMap(t.movements),
		couponTypes:  cloneMap(t.couponTypes),
		coupons:      cloneMap(t.coupons),
		arrivals:     cloneMap(t.arrivals),
		arrivalLines: cloneMap(t.arrivalLines),
		orders:       cloneMap(t.orders),
		orderLines:   cloneMap(t.orderLines),
		deliveries:   cloneMap(t.deliveries),
		payments:     cloneMap(t.payments),
		reviews:      cloneMap(t.reviews),
		likes:        cloneMap(t.likes),
		alerts:       cloneMap(t.alerts),
		faqs:         cloneMap(t.faqs),
	}
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store is safe for concurrent use. Transactions are serialized: a unit of
// work owns the whole store until it commits or rolls back, and calls made
// outside a transaction wait for it.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	t    tables
}

func New() *Store {
	return &Store{t: newTables()}
}

// WithinTx runs fn against a snapshot-protected store. Any error restores
// the state fn started from.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock guards one repository call and returns its release.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// page returns the 1-based page of items; pageSize <= 0 returns everything.
func page[T any](items []T, pageNum, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * pageSize
	if start >= len(items) {
		return items[:0]
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
