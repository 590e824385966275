package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/dig"

	"ecodeli/internal/config"
	paymentgw "ecodeli/internal/gateway/payment"
	"ecodeli/internal/http/handlers"
	"ecodeli/internal/http/pprofserver"
	"ecodeli/internal/locale"
	"ecodeli/internal/logx"
	"ecodeli/internal/repository"
	"ecodeli/internal/service/auth"
	"ecodeli/internal/service/delivery"
	"ecodeli/internal/service/merchant"
	"ecodeli/internal/service/notification"
	"ecodeli/internal/service/payment"
	"ecodeli/internal/service/provider"
	"ecodeli/internal/service/purchase"
	"ecodeli/internal/service/subscription"
	"ecodeli/internal/session"
	"ecodeli/internal/telemetry"
)

type dbConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error)

// migrateFunc applies the database schema.
type migrateFunc func(context.Context, *pgxpool.Pool) error

// expireInterval is the period of the stale delivery sweep.
type expireInterval time.Duration

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect  dbConnectFunc
	loadConfig func() (*config.Config, error)
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect:  connectDbWithRetry,
		loadConfig: config.Load,
		logFatalf:  log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithConfig replaces config.Load.
func (b *ContainerBuilder) WithConfig(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns a new dig container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerInfra(container); err != nil {
		return nil, fmt.Errorf("infra: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns a new dig container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the container used by the payments worker.
// Providers are lazy, so the HTTP graph is never constructed there.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context, loadConfig func() (*config.Config, error)) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		func(cfg *config.Config) logx.Logger { return NewLogger(cfg.LogBackend) },
		func(cfg *config.Config) expireInterval { return expireInterval(cfg.Delivery.ExpireInterval) },
		func(cfg *config.Config) locale.Set { return locale.NewSet(cfg.Locale.Supported, cfg.Locale.Default) },
		func() time.Duration { return 3 * time.Second },
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container,
		providerDB,
		func() migrateFunc { return repository.Migrate },
		repository.NewUserRepo,
		repository.NewAnnouncementRepo,
		repository.NewDeliveryRepo,
		repository.NewEscrowRepo,
		repository.NewNotificationRepo,
		repository.NewPurchaseRepo,
		repository.NewSubscriptionRepo,
		repository.NewProviderRepo,
		repository.NewCartDropRepo,
	)
}

func registerInfra(container *dig.Container) error {
	return provideAll(container,
		provideMetrics,
		newPublisher,
		newPaymentGateway,
		func(cfg *config.Config, logger logx.Logger) (telemetry.Shutdown, error) {
			return telemetry.InitTracer("ecodeli", cfg.Tracing, nil, logger)
		},
		func(cfg *config.Config) *session.Manager {
			return session.NewManager(cfg.Session.Secret, cfg.Session.AccessTTL, cfg.Session.RefreshTTL)
		},
	)
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		func(in notificationIn) *notification.Service {
			return notification.NewService(in.Repo, in.Publisher, in.Logger, in.Failures, in.Timeout)
		},
		func(repo *repository.EscrowRepo, gw payment.Gateway, cfg *config.Config, logger logx.Logger, timeout time.Duration) *payment.Service {
			return payment.NewService(repo, gw, payment.Config{
				Currency:       cfg.Payment.Currency,
				PublishableKey: cfg.Payment.PublicKey,
			}, logger, timeout)
		},
		func(repo *repository.EscrowRepo, notifier *notification.Service, logger logx.Logger) *payment.Processor {
			return payment.NewProcessor(repo, notifier, logger)
		},
		func(in deliveryIn) *delivery.Service {
			return delivery.NewService(in.Deliveries, in.Announcements, in.Settler, in.Notifier, delivery.Config{
				Currency:   in.Config.Payment.Currency,
				PendingTTL: in.Config.Delivery.PendingTTL,
			}, in.Validations, in.Timeout, in.Logger)
		},
		func(users *repository.UserRepo, tokens *session.Manager, mailer *notification.Service, timeout time.Duration, logger logx.Logger) (*auth.Service, error) {
			return auth.NewService(users, tokens, mailer, 0, timeout, logger)
		},
		func(repo *repository.PurchaseRepo, timeout time.Duration, logger logx.Logger) *purchase.Service {
			return purchase.NewService(repo, timeout, logger)
		},
		func(repo *repository.SubscriptionRepo, timeout time.Duration, logger logx.Logger) *subscription.Service {
			return subscription.NewService(repo, timeout, logger)
		},
		func(repo *repository.ProviderRepo, users *repository.UserRepo, timeout time.Duration, logger logx.Logger) *provider.Service {
			return provider.NewService(repo, users, timeout, logger)
		},
		func(drops *repository.CartDropRepo, users *repository.UserRepo, timeout time.Duration, logger logx.Logger) *merchant.Service {
			return merchant.NewService(drops, users, timeout, logger)
		},
	)
}

type notificationIn struct {
	dig.In
	Repo      *repository.NotificationRepo
	Publisher brokerPublisher
	Logger    logx.Logger
	Failures  prometheus.Counter `name:"notification_publish_failures_total"`
	Timeout   time.Duration
}

type deliveryIn struct {
	dig.In
	Config        *config.Config
	Deliveries    *repository.DeliveryRepo
	Announcements *repository.AnnouncementRepo
	Settler       *payment.Service
	Notifier      *notification.Service
	Validations   *prometheus.CounterVec `name:"delivery_code_validations_total"`
	Timeout       time.Duration
	Logger        logx.Logger
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pprofProvider := func(cfg *config.Config, logger logx.Logger) *http.Server {
		return pprofserver.NewServer(pprofserver.Config{
			Addr: cfg.Pprof.Addr,
			User: cfg.Pprof.User,
			Pass: cfg.Pprof.Pass,
		}, logger)
	}
	if err := container.Provide(pprofProvider, dig.Name("pprof_server")); err != nil {
		return fmt.Errorf("provide pprof server: %w", err)
	}
	return provideAll(container,
		handlers.New,
		handlers.NewAuthHandler,
		handlers.NewMerchantHandler,
		handlers.NewDocsHandler,
		func(cfg *config.Config, locales locale.Set, logger logx.Logger) *handlers.SiteHandler {
			return handlers.NewSiteHandler(handlers.SiteInfo{
				SiteURL:          cfg.SiteURL,
				APIURL:           cfg.APIURL,
				PaymentPublicKey: cfg.Payment.PublicKey,
			}, locales, logger)
		},
		newProcedureRouter,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		func(in routerIn) http.Handler {
			return otelhttp.NewHandler(newRouter(in), "ecodeli-api")
		},
		serverProvider,
	)
}

func newPaymentGateway(cfg *config.Config, logger logx.Logger, in gatewayRetriesIn) payment.Gateway {
	httpGw := paymentgw.NewHTTPGateway(cfg.Payment.APIURL, cfg.Payment.SecretKey, nil)
	return paymentgw.NewRetryingGateway(httpGw, logger, in.Retries, paymentgw.RetryConfig{
		MaxAttempts: cfg.Payment.MaxAttempts,
		BaseDelay:   cfg.Payment.BaseDelay,
		MaxDelay:    cfg.Payment.MaxDelay,
	})
}

type gatewayRetriesIn struct {
	dig.In
	Retries prometheus.Counter `name:"payment_gateway_retries_total"`
}
