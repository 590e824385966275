package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"ecodeli/internal/logx"
	"ecodeli/internal/service/delivery"
	"ecodeli/internal/telemetry"
)

// Runner runs the API server.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP server using the provided DI container and blocks until shutdown.
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("startup aborted: startup timeout exceeded")
	default:
		logger.Error("run error", logx.Err(err))
		panic(err)
	}
}

func containerLogger(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

type appIn struct {
	dig.In

	Ctx        context.Context
	Server     *http.Server
	Pprof      *http.Server `name:"pprof_server" optional:"true"`
	Pool       *pgxpool.Pool
	Migrate    migrateFunc
	Logger     logx.Logger
	Deliveries *delivery.Service
	Interval   expireInterval
	Publisher  brokerPublisher
	Tracing    telemetry.Shutdown
}

func run(container *dig.Container) error {
	return container.Invoke(appRun)
}

func appRun(in appIn) error {
	if err := in.Migrate(in.Ctx, in.Pool); err != nil {
		return err
	}

	startServer(in.Server, in.Logger, "api")
	if in.Pprof != nil {
		startServer(in.Pprof, in.Logger, "pprof")
	}
	startExpiryLoop(in.Ctx, in.Logger, in.Deliveries, time.Duration(in.Interval))

	<-in.Ctx.Done()
	in.Logger.Info("shutting down")

	gracefulShutdown(in.Server, in.Logger, 15*time.Second)
	if in.Pprof != nil {
		gracefulShutdown(in.Pprof, in.Logger, time.Second)
	}
	closeResources(in)
	return in.Ctx.Err()
}

func startServer(server *http.Server, logger logx.Logger, name string) {
	go func() {
		logger.Info("listening", logx.String("server", name), logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", logx.String("server", name), logx.Err(err))
		}
	}()
}

type staleExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// startExpiryLoop cancels pending deliveries nobody started in time.
func startExpiryLoop(ctx context.Context, logger logx.Logger, svc staleExpirer, interval time.Duration) {
	if interval <= 0 {
		logger.Warn("stale delivery sweep disabled")
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := svc.ExpireStale(ctx); err != nil && ctx.Err() == nil {
					logger.Error("stale delivery sweep failed", logx.Err(err))
				}
			}
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(in appIn) {
	if in.Publisher != nil {
		if err := in.Publisher.Close(); err != nil {
			in.Logger.Error("broker close error", logx.Err(err))
		}
	}
	if in.Tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := in.Tracing(ctx); err != nil {
			in.Logger.Error("tracer shutdown error", logx.Err(err))
		}
	}
	if in.Pool != nil {
		in.Pool.Close()
	}
	_ = in.Logger.Sync()
}
