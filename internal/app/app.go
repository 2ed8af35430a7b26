package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/checkout-gateway/internal/gateway"
	"github.com/xenking/checkout-gateway/internal/handler"
	"github.com/xenking/checkout-gateway/internal/payload"
	"github.com/xenking/checkout-gateway/internal/storage/postgres"
	"github.com/xenking/checkout-gateway/internal/translate"
	"github.com/xenking/checkout-gateway/pkg/health"
	"github.com/xenking/checkout-gateway/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	orderRepo := postgres.NewOrderRepository(pool)
	methodRepo := postgres.NewMethodConfigurationRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)

	// Payload assembler and gateway client.
	settings := payload.Settings{
		EnforceConsistency: cfg.Payload.EnforceConsistency,
		DefaultLocale:      cfg.Payload.DefaultLocale,
	}
	if cfg.Payload.SpaceViewID != 0 {
		viewID := cfg.Payload.SpaceViewID
		settings.SpaceViewID = &viewID
	}
	assembler := payload.NewAssembler(
		translate.NewCatalog(),
		methodRepo,
		newRedirectURLs(cfg.CheckoutBaseURL),
		settings,
	)
	gatewayClient := gateway.NewHTTPClient(gateway.Config{
		BaseURL: cfg.Gateway.BaseURL,
		SpaceID: cfg.Gateway.SpaceID,
		UserID:  cfg.Gateway.UserID,
		Secret:  cfg.Gateway.Secret,
		Timeout: cfg.Gateway.Timeout,
	})

	// HTTP surface: health endpoints + API routes on one server.
	h := handler.NewHandler(orderRepo, assembler, gatewayClient, txnRepo, cfg.Gateway.SpaceID)
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("checkout-gateway", httpmiddleware.InstrumentConfig{
				TracerProvider: m.TracerProvider(),
				MeterProvider:  m.MeterProvider(),
			}),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
