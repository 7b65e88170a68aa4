package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/marketplace-backend/api"
	"github.com/angelmondragon/marketplace-backend/api/routes"
	"github.com/angelmondragon/marketplace-backend/internal/address"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/internal/cart"
	"github.com/angelmondragon/marketplace-backend/internal/categories"
	"github.com/angelmondragon/marketplace-backend/internal/checkout"
	"github.com/angelmondragon/marketplace-backend/internal/customers"
	"github.com/angelmondragon/marketplace-backend/internal/dashboard"
	"github.com/angelmondragon/marketplace-backend/internal/delivery"
	"github.com/angelmondragon/marketplace-backend/internal/earnings"
	"github.com/angelmondragon/marketplace-backend/internal/notifications"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	"github.com/angelmondragon/marketplace-backend/internal/partners"
	"github.com/angelmondragon/marketplace-backend/internal/products"
	"github.com/angelmondragon/marketplace-backend/internal/reviews"
	"github.com/angelmondragon/marketplace-backend/internal/support"
	"github.com/angelmondragon/marketplace-backend/internal/vendors"
	"github.com/angelmondragon/marketplace-backend/internal/wishlist"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/instance"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/migrate"
	"github.com/angelmondragon/marketplace-backend/pkg/notify"
	"github.com/angelmondragon/marketplace-backend/pkg/outbox"
	"github.com/angelmondragon/marketplace-backend/pkg/ratelimit"
	"github.com/angelmondragon/marketplace-backend/pkg/redis"
)

const serviceName = "api"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	rates, err := cfg.Commerce.Rates()
	if err != nil {
		logg.Error(context.Background(), "invalid commerce rates", err)
		os.Exit(1)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	otpSender, err := notify.New(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create otp sender", err)
		os.Exit(1)
	}

	services, err := buildServices(cfg, logg, dbClient, sessionManager, otpSender, rates)
	if err != nil {
		logg.Error(context.Background(), "failed to build services", err)
		os.Exit(1)
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	router := routes.NewRouter(routes.Params{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Cache:    redisClient,
		Sessions: sessionManager,
		Metrics:  metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Services: services,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	if err := api.Serve(ctx, api.NewServer(addr, router), logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func buildServices(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	sessionManager *session.Manager,
	otpSender notify.OTPSender,
	rates config.CommerceRates,
) (routes.Services, error) {
	var s routes.Services
	conn := dbClient.DB()
	now := func() time.Time { return time.Now().UTC() }
	emitter := outbox.NewService(outbox.NewRepository(conn), logg)

	vendorRepo := vendors.NewRepository(conn)
	categoryRepo := categories.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	addressRepo := address.NewRepository(conn)
	inventory := products.NewInventory(productRepo)

	var err error
	if s.Auth, err = auth.NewService(auth.ServiceParams{
		Repo:           auth.NewRepository(conn),
		Tx:             dbClient,
		SessionManager: sessionManager,
		OTPSender:      otpSender,
		JWTConfig:      cfg.JWT,
		OTPConfig:      cfg.OTP,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	}); err != nil {
		return s, err
	}
	if s.Vendors, err = vendors.NewService(vendorRepo, sessionManager); err != nil {
		return s, err
	}
	if s.Customers, err = customers.NewService(customers.NewRepository(conn), sessionManager); err != nil {
		return s, err
	}
	if s.Partners, err = partners.NewService(partners.NewRepository(conn), dbClient, sessionManager); err != nil {
		return s, err
	}
	if s.Categories, err = categories.NewService(categoryRepo); err != nil {
		return s, err
	}
	if s.Products, err = products.NewService(productRepo, s.Vendors, categoryRepo, now); err != nil {
		return s, err
	}
	if s.Catalog, err = products.NewCatalog(products.CatalogParams{
		Repo:           productRepo,
		Categories:     s.Categories,
		CategoryLookup: categoryRepo,
		Vendors:        vendorRepo,
		Now:            now,
	}); err != nil {
		return s, err
	}
	if s.Cart, err = cart.NewService(cartRepo, productRepo, vendorRepo, rates.DeliveryCharge); err != nil {
		return s, err
	}
	if s.Wishlist, err = wishlist.NewService(wishlist.NewRepository(conn), productRepo); err != nil {
		return s, err
	}
	if s.Addresses, err = address.NewService(addressRepo, dbClient); err != nil {
		return s, err
	}
	if s.Checkout, err = checkout.NewService(checkout.Params{
		Tx:             dbClient,
		Cart:           cartRepo,
		Addresses:      addressRepo,
		Orders:         orderRepo,
		Vendors:        vendorRepo,
		Inventory:      inventory,
		Outbox:         emitter,
		DeliveryCharge: rates.DeliveryCharge,
		Transit:        rates.EstimatedTransit,
		Now:            now,
	}); err != nil {
		return s, err
	}

	lifecycle, err := orders.NewLifecycle(orderRepo, emitter, inventory, now)
	if err != nil {
		return s, err
	}
	if s.Orders, err = orders.NewService(orderRepo, dbClient, lifecycle); err != nil {
		return s, err
	}
	if s.VendorOrders, err = orders.NewVendorService(orderRepo, dbClient, lifecycle, now); err != nil {
		return s, err
	}
	if s.AdminOrders, err = orders.NewAdminService(orderRepo, dbClient, lifecycle); err != nil {
		return s, err
	}
	if s.Delivery, err = delivery.NewService(delivery.Params{
		Tx:        dbClient,
		Repo:      delivery.NewRepository(conn),
		Orders:    orderRepo,
		Lifecycle: lifecycle,
		Outbox:    emitter,
		Pings:     ratelimit.Every[uuid.UUID](cfg.APIRateLimit.LocationInterval, 1),
		Now:       now,
	}); err != nil {
		return s, err
	}
	if s.Earnings, err = earnings.NewService(earnings.NewRepository(conn), now); err != nil {
		return s, err
	}
	if s.Reviews, err = reviews.NewService(reviews.NewRepository(conn)); err != nil {
		return s, err
	}

	supportParams := support.Params{
		Tx:     dbClient,
		Repo:   support.NewRepository(conn),
		Outbox: emitter,
		Now:    now,
	}
	if s.Support, err = support.NewService(supportParams); err != nil {
		return s, err
	}
	if s.AdminSupport, err = support.NewAdminService(supportParams); err != nil {
		return s, err
	}
	if s.Notifications, err = notifications.NewService(notifications.NewRepository(conn), now); err != nil {
		return s, err
	}
	if s.Dashboard, err = dashboard.NewService(dashboard.NewRepository(conn), now); err != nil {
		return s, err
	}
	return s, nil
}
