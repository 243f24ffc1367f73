package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-backoffice-service/config"
	alertH "github.com/fekuna/omnipos-backoffice-service/internal/alert/handler"
	alertUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/alert/usecase"
	arrivalH "github.com/fekuna/omnipos-backoffice-service/internal/arrival/handler"
	arrivalUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/arrival/usecase"
	catH "github.com/fekuna/omnipos-backoffice-service/internal/category/handler"
	catUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/category/usecase"
	couponH "github.com/fekuna/omnipos-backoffice-service/internal/coupon/handler"
	couponUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/coupon/usecase"
	deliveryH "github.com/fekuna/omnipos-backoffice-service/internal/delivery/handler"
	deliveryUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/delivery/usecase"
	faqH "github.com/fekuna/omnipos-backoffice-service/internal/faq/handler"
	faqUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/faq/usecase"
	feedbackH "github.com/fekuna/omnipos-backoffice-service/internal/feedback/handler"
	feedbackUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/feedback/usecase"
	orderH "github.com/fekuna/omnipos-backoffice-service/internal/order/handler"
	orderUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/order/usecase"
	paymentH "github.com/fekuna/omnipos-backoffice-service/internal/payment/handler"
	paymentListenerPkg "github.com/fekuna/omnipos-backoffice-service/internal/payment/listener"
	paymentUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/payment/usecase"
	"github.com/fekuna/omnipos-backoffice-service/internal/platform"
	"github.com/fekuna/omnipos-backoffice-service/internal/product"
	prodH "github.com/fekuna/omnipos-backoffice-service/internal/product/handler"
	"github.com/fekuna/omnipos-backoffice-service/internal/product/listcache"
	prodUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/product/usecase"
	stockH "github.com/fekuna/omnipos-backoffice-service/internal/stock/handler"
	stockUCPkg "github.com/fekuna/omnipos-backoffice-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-backoffice-service/internal/transport"
	"github.com/fekuna/omnipos-backoffice-service/pkg/broker"
	"github.com/fekuna/omnipos-backoffice-service/pkg/cache"
	"github.com/fekuna/omnipos-backoffice-service/pkg/logger"
	"github.com/fekuna/omnipos-backoffice-service/pkg/search"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Open Storage
	store, err := newStorage(cfg)
	if err != nil {
		appLogger.Fatal("Could not open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.close()
	appLogger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Initialize Redis
	var (
		listCache *listcache.ListCache
		locker    platform.Locker
	)
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		listCache = listcache.New(redisClient, time.Duration(cfg.Redis.ListTTL)*time.Second, appLogger)
		locker = redisClient
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5. Initialize Kafka
	var (
		publisher     platform.EventPublisher
		kafkaConsumer *broker.KafkaConsumer
	)
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.EventsTopic,
		})
		defer producer.Close()
		publisher = producer

		kafkaConsumer = broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.PaymentsTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("events_topic", cfg.Kafka.EventsTopic),
			zap.String("payments_topic", cfg.Kafka.PaymentsTopic),
		)
	}

	// 6. Initialize Elasticsearch
	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err == nil {
			err = esClient.CreateIndex(ctx, cfg.Elastic.Index, product.SearchMapping)
		}
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch (product search disabled)", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	// 7. Initialize UseCases
	stockUC := stockUCPkg.NewStockUseCase(store.stock, store.tx, listCache, publisher, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(store.categories, store.tx, listCache, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(store.products, stockUC, store.tx, listCache, esClient, cfg.Elastic.Index, appLogger)
	couponUC := couponUCPkg.NewCouponUseCase(store.coupons, store.tx, appLogger)
	arrivalUC := arrivalUCPkg.NewArrivalUseCase(store.arrivals, stockUC, store.tx, locker, publisher, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(store.orders, stockUC, couponUC, store.deliveries, store.tx, listCache, publisher,
		cfg.Checkout.ReferencePrefix, appLogger)
	deliveryUC := deliveryUCPkg.NewDeliveryUseCase(store.deliveries, store.orders, store.tx, publisher, appLogger)
	paymentUC := paymentUCPkg.NewPaymentUseCase(store.payments, orderUC, store.tx, appLogger)
	feedbackUC := feedbackUCPkg.NewFeedbackUseCase(store.feedback, listCache, appLogger)
	alertUC := alertUCPkg.NewAlertUseCase(store.alerts, store.tx, publisher, appLogger)
	faqUC := faqUCPkg.NewFaqUseCase(store.faqs, appLogger)

	// 8. Start Listeners
	if kafkaConsumer != nil {
		paymentListener := paymentListenerPkg.NewPaymentListener(kafkaConsumer, paymentUC, alertUC, appLogger)
		go paymentListener.Start(ctx)
	}

	// 9. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.String("port", port), zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(transport.UnaryServerInterceptor(appLogger)),
	)

	// Register Services
	catH.NewCategoryHandler(catUC, appLogger).Register(grpcServer)
	prodH.NewProductHandler(prodUC, appLogger).Register(grpcServer)
	stockH.NewStockHandler(stockUC, appLogger).Register(grpcServer)
	couponH.NewCouponHandler(couponUC, appLogger).Register(grpcServer)
	arrivalH.NewArrivalHandler(arrivalUC, appLogger).Register(grpcServer)
	orderH.NewOrderHandler(orderUC, appLogger).Register(grpcServer)
	deliveryH.NewDeliveryHandler(deliveryUC, appLogger).Register(grpcServer)
	paymentH.NewPaymentHandler(paymentUC, appLogger).Register(grpcServer)
	feedbackH.NewFeedbackHandler(feedbackUC, appLogger).Register(grpcServer)
	alertH.NewAlertHandler(alertUC, appLogger).Register(grpcServer)
	faqH.NewFaqHandler(faqUC, appLogger).Register(grpcServer)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register Reflection
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
