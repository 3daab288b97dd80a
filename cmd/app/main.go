package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/wichananm65/betashop/internal/address"
	"github.com/wichananm65/betashop/internal/cart"
	"github.com/wichananm65/betashop/internal/cartpage"
	"github.com/wichananm65/betashop/internal/catalog"
	"github.com/wichananm65/betashop/internal/category"
	"github.com/wichananm65/betashop/internal/checkout"
	"github.com/wichananm65/betashop/internal/config"
	"github.com/wichananm65/betashop/internal/session"
	"github.com/wichananm65/betashop/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := fiber.New()
	setupCORS(app)

	var (
		backend      storage.Backend
		productRepo  catalog.Repository
		categoryRepo category.Repository
		regionRepo   address.Repository
	)
	hub := storage.NewHub()

	switch cfg.Storage {
	case config.StoragePostgres:
		db := mustOpenDB(cfg.DatabaseURL, logger)
		defer db.Close()

		pg := storage.NewPostgresBackend(db, cfg.InstanceID)
		products := catalog.NewPostgresRepository(db)
		categories := category.NewPostgresRepository(db)
		regions := address.NewPostgresRepository(db)
		for name, ensure := range map[string]func() error{
			"cart_slots":         pg.EnsureSchema,
			"catalog_products":   products.EnsureSchema,
			"catalog_categories": categories.EnsureSchema,
			"address_regions":    regions.EnsureSchema,
		} {
			if err := ensure(); err != nil {
				logger.Fatal("failed to prepare table", zap.String("table", name), zap.Error(err))
			}
		}
		backend, productRepo, categoryRepo, regionRepo = pg, products, categories, regions

		listener := storage.NewListener(cfg.DatabaseURL, cfg.InstanceID, pg, hub, logger.Named("listener"))
		go func() {
			if err := listener.Supervise(ctx); err != nil {
				logger.Error("slot listener stopped", zap.Error(err))
			}
		}()
	default:
		backend = storage.NewMemoryBackend(nil)
		productRepo = catalog.NewInMemoryRepository(catalog.DefaultProducts)
		categoryRepo = category.NewInMemoryRepository(nil)
		regionRepo = address.NewInMemoryRepository(nil)
	}

	opener := cart.NewOpener(storage.NewLocal(backend, hub), logger.Named("cart"))
	menu := category.NewService(categoryRepo)
	regions := address.NewService(regionRepo)
	sessions := checkout.NewSessions(checkout.Config{
		Delay:       cfg.OrderDelay,
		Regions:     regions,
		IdleTimeout: cfg.CheckoutIdle,
		Log:         logger.Named("checkout"),
	})
	defer sessions.CloseAll()
	go sessions.Run(ctx, time.Minute)

	session.NewHandler(session.NewIssuer(cfg.JWTSecret)).RegisterPublicRoutes(app)
	category.NewHandler(menu, catalog.MenuCounts(productRepo), logger).RegisterPublicRoutes(app)
	address.NewHandler(regions, logger).RegisterPublicRoutes(app)

	catalogHandler := catalog.NewHandler(productRepo, menu, opener, logger.Named("catalog"))
	catalogHandler.RegisterPublicRoutes(app)

	app.Use(checkMiddleware(logger))
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	catalogHandler.RegisterProtectedRoutes(app)
	cartpage.NewHandler(opener, logger.Named("cartpage")).RegisterProtectedRoutes(app)
	checkout.NewHandler(opener, sessions, logger.Named("checkout")).RegisterProtectedRoutes(app)

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	logger.Info("betashop listening", zap.String("addr", cfg.Addr), zap.String("storage", cfg.Storage), zap.String("instance", cfg.InstanceID))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.Addr), zap.Error(err))
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}
	return db
}

func checkMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("request",
			zap.String("url", c.OriginalURL()),
			zap.String("method", c.Method()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		)
		return err
	}
}
