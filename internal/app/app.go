package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopfront/cartcore/internal/domain/auth"
	"github.com/shopfront/cartcore/internal/domain/cart"
	"github.com/shopfront/cartcore/internal/domain/checkout"
	"github.com/shopfront/cartcore/internal/domain/pricing"
	"github.com/shopfront/cartcore/internal/domain/promo"
	"github.com/shopfront/cartcore/internal/handler"
	"github.com/shopfront/cartcore/internal/storage/postgres"
	storageredis "github.com/shopfront/cartcore/internal/storage/redis"
	"github.com/shopfront/cartcore/pkg/health"
	"github.com/shopfront/cartcore/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
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

	// Redis client for the cart slot.
	redisOpts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return errors.Wrap(err, "parse redis url")
	}
	redisClient := goredis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddReadinessCheck("redis", 5*time.Second, func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	// Pricing policy from configuration.
	taxRate, err := cfg.ParseTaxRate()
	if err != nil {
		return errors.Wrap(err, "parse tax rate")
	}
	policy, err := cfg.BuildShippingPolicy()
	if err != nil {
		return errors.Wrap(err, "build shipping policy")
	}
	engine := pricing.NewEngine(taxRate, policy)

	// Cart store, rehydrated from its slot. A corrupt record is discarded
	// inside Load; only an unreachable Redis fails startup.
	persister := storageredis.NewCartPersister(redisClient, cfg.CartTTL)
	store := cart.NewStore(cfg.CartID, persister)
	if err := store.Load(ctx); err != nil {
		return errors.Wrap(err, "load cart")
	}
	lg.Info("Cart rehydrated",
		zap.String("cart_id", cfg.CartID),
		zap.Int("lines", store.Len()),
		zap.Int64("version", store.Version()),
	)

	// Repositories and domain services.
	catalogRepo := postgres.NewCatalogRepository(pool)
	promoRepo := postgres.NewPromoRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)

	session := promo.NewSession(promo.NewRepoResolver(promoRepo))
	gate := checkout.NewGate(auth.ContextAuth{}, cfg.LoginPath)
	checkoutSvc := checkout.NewService(gate, store, engine, orderRepo)

	// HTTP surface.
	h := handler.NewHandler(store, engine, session, catalogRepo, checkoutSvc)
	security := handler.NewSecurity(tokenRepo, []byte(cfg.TokenPepper))

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-Shopper-Token"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("cart-api", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
			security.Authenticate,
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
