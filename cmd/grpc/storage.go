package main

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/config"
	"github.com/fekuna/omnipos-backoffice-service/internal/alert"
	alertRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/alert/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/arrival"
	arrivalRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/arrival/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/category"
	catRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/category/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/coupon"
	couponRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/coupon/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/delivery"
	deliveryRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/delivery/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/faq"
	faqRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/faq/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/feedback"
	feedbackRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/feedback/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/memstore"
	"github.com/fekuna/omnipos-backoffice-service/internal/order"
	orderRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/order/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/payment"
	paymentRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/payment/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/product"
	prodRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/product/repository"
	"github.com/fekuna/omnipos-backoffice-service/internal/stock"
	stockRepoPkg "github.com/fekuna/omnipos-backoffice-service/internal/stock/repository"
	"github.com/fekuna/omnipos-backoffice-service/pkg/postgres"
)

type storage struct {
	tx         platform.Transactor
	categories category.Repository
	products   product.Repository
	stock      stock.Repository
	coupons    coupon.Repository
	arrivals   arrival.Repository
	orders     order.Repository
	deliveries delivery.Repository
	payments   payment.Repository
	feedback   feedback.Repository
	alerts     alert.Repository
	faqs       faq.Repository
	close      func() error
}

func newStorage(cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case "memory":
		s := memstore.New()
		return &storage{
			tx:         s,
			categories: s.Categories(),
			products:   s.Products(),
			stock:      s.Stock(),
			coupons:    s.Coupons(),
			arrivals:   s.Arrivals(),
			orders:     s.Orders(),
			deliveries: s.Deliveries(),
			payments:   s.Payments(),
			feedback:   s.Feedback(),
			alerts:     s.Alerts(),
			faqs:       s.Faqs(),
			close:      func() error { return nil },
		}, nil

	case "postgres":
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return &storage{
			tx:         postgres.NewTxManager(db, cfg.Postgres.TxMaxRetries),
			categories: catRepoPkg.NewPGRepository(db),
			products:   prodRepoPkg.NewPGRepository(db),
			stock:      stockRepoPkg.NewPGRepository(db),
			coupons:    couponRepoPkg.NewPGRepository(db),
			arrivals:   arrivalRepoPkg.NewPGRepository(db),
			orders:     orderRepoPkg.NewPGRepository(db),
			deliveries: deliveryRepoPkg.NewPGRepository(db),
			payments:   paymentRepoPkg.NewPGRepository(db),
			feedback:   feedbackRepoPkg.NewPGRepository(db),
			alerts:     alertRepoPkg.NewPGRepository(db),
			faqs:       faqRepoPkg.NewPGRepository(db),
			close:      db.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
