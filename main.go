package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-bakery/internal/auth"
	"ms-bakery/internal/board"
	"ms-bakery/internal/board/board_api"
	"ms-bakery/internal/builder"
	"ms-bakery/internal/builder/builder_api"
	builderredis "ms-bakery/internal/builder/redis"
	"ms-bakery/internal/catalog"
	"ms-bakery/internal/catalog/catalog_api"
	catalog_db "ms-bakery/internal/catalog/db"
	"ms-bakery/internal/config"
	"ms-bakery/internal/customers"
	"ms-bakery/internal/customers/customer_api"
	customer_db "ms-bakery/internal/customers/db"
	"ms-bakery/internal/database/migrations"
	"ms-bakery/internal/kafka"
	"ms-bakery/internal/logger"
	"ms-bakery/internal/models"
	"ms-bakery/internal/notify"
	"ms-bakery/internal/notify/notify_api"
	"ms-bakery/internal/orders"
	order_db "ms-bakery/internal/orders/db"
	"ms-bakery/internal/orders/order_api"
	"ms-bakery/internal/orders/qr"
	"ms-bakery/internal/payments"
	payment_db "ms-bakery/internal/payments/db"
	"ms-bakery/internal/payments/payment_api"
	paymentredis "ms-bakery/internal/payments/redis"
	"ms-bakery/internal/products"
	product_db "ms-bakery/internal/products/db"
	"ms-bakery/internal/products/product_api"
	"ms-bakery/internal/reports"
	"ms-bakery/internal/reports/report_api"
)

func connectPostgres(cfg config.DatabaseConfig, log *logger.Logger) *bun.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Addr))
	return client
}

func runMigrations(bunDB *bun.DB, log *logger.Logger) {
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "./migrations"
	}
	runner := migrations.NewRunner(bunDB, log, migrations.Options{
		MigrationsDir: dir,
		SeedData:      os.Getenv("SEED_DATA") == "true",
	})
	if err := runner.Run(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
	}
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Emily Bakes Cakes service")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		log.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database, log)
	defer bunDB.Close()

	redisClient := connectRedis(ctx, cfg.Redis, log)
	defer redisClient.Close()

	runMigrations(bunDB, log)

	var orderEvents orders.KafkaPublisher
	var statusEvents board.StatusPublisher
	if cfg.Kafka.Enabled {
		requiredTopics := []string{
			cfg.Kafka.Topics.OrderCreated,
			cfg.Kafka.Topics.OrderStatus,
		}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			log.Info("KAFKA", "Required topics ensured successfully")
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics)
		defer producer.Close()
		orderEvents = producer
		statusEvents = producer
		log.Info("KAFKA", "Kafka producer initialized successfully")
	} else {
		log.Warn("KAFKA", "Kafka disabled, order events will not be published")
	}

	toaster := notify.NewToaster(cfg.Notify.MaxVisible, cfg.Notify.DefaultDuration)

	catalogService := catalog.NewService(&catalog_db.DB{Bun: bunDB})
	orderService := orders.NewService(&order_db.DB{Bun: bunDB}, orderEvents, qr.NewGenerator(cfg.Pickup.QRSecret), log)
	boardService := board.NewService(&order_db.DB{Bun: bunDB}, toaster, statusEvents, log, cfg.Board)
	customerService := customers.NewService(&customer_db.DB{Bun: bunDB}, log)
	productService := products.NewService(&product_db.DB{Bun: bunDB}, catalogService, log)
	reportService := reports.NewService(reports.NewDB(bunDB), log)

	previews := builder.NewMemoryPreviewStore()
	drafts := builderredis.NewRedis(redisClient, cfg.Redis.DraftTTL)
	builderService := builder.NewService(drafts, orderService, toaster, catalogService, previews, log, cfg.Builder)

	var gateway payments.Gateway
	if cfg.Stripe.Enabled {
		stripeGateway, err := payments.NewStripeGateway(cfg.Stripe.SecretKey, log)
		if err != nil {
			log.Fatal("STRIPE", fmt.Sprintf("Stripe client init failed: %v", err))
		}
		gateway = stripeGateway
		log.Info("STRIPE", "Stripe gateway initialized")
	} else {
		gateway = payments.MockGateway{}
		log.Warn("STRIPE", "Stripe disabled, using mock payment gateway")
	}
	depositLock := paymentredis.NewLock(redisClient, 0)
	paymentService := payments.NewService(&payment_db.DB{Bun: bunDB}, orderService, depositLock, gateway, log, cfg.Stripe)

	builderHandler := builder_api.NewHandler(builderService, previews, log)
	catalogHandler := catalog_api.NewHandler(catalogService, log)
	orderHandler := order_api.NewHandler(orderService, log)
	boardHandler := board_api.NewHandler(boardService, log)
	notifyHandler := notify_api.NewHandler(toaster, log)
	customerHandler := customer_api.NewHandler(customerService, log)
	productHandler := product_api.NewHandler(productService, log)
	paymentHandler := payment_api.NewHandler(paymentService, log)
	reportHandler := report_api.NewHandler(reportService, log)

	log.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes (storefront) ---
	r.Route("/api/builder", func(r chi.Router) {
		r.Post("/session", builderHandler.StartSession)
		r.Get("/session/{sessionId}", builderHandler.GetSession)
		r.Post("/session/{sessionId}/step/open", builderHandler.OpenStep)
		r.Post("/session/{sessionId}/step/complete", builderHandler.CompleteStep)
		r.Put("/session/{sessionId}/occasion", builderHandler.SetOccasion)
		r.Put("/session/{sessionId}/flavor", builderHandler.SetFlavor)
		r.Put("/session/{sessionId}/design", builderHandler.SetDesign)
		r.Put("/session/{sessionId}/details", builderHandler.SetDetails)
		r.Post("/session/{sessionId}/images", builderHandler.UploadImage)
		r.Delete("/session/{sessionId}/images/{slot}", builderHandler.RemoveImage)
		r.Get("/previews/{handle}", builderHandler.ServePreview)
	})
	r.Get("/api/catalog/flavors", catalogHandler.ListFlavors)
	r.Get("/api/catalog/designs", catalogHandler.ListDesigns)
	r.Get("/api/products", productHandler.ListProducts)
	r.Get("/api/products/{productId}", productHandler.GetProduct)
	log.Info("ROUTER", "Public storefront routes registered under /api/builder")

	// --- Protected Routes (back office) ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(auth.NewClaimsCache(redisClient)))
		log.Info("AUTH", "OIDC middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Route("/board", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleBaker, models.RoleSales))
				r.Get("/", boardHandler.GetBoard)
				r.Post("/move", boardHandler.MoveOrder)
				r.Post("/refresh", boardHandler.RefreshBoard)
			})

			r.Route("/orders", func(r chi.Router) {
				r.With(auth.RequireRole(models.RoleSales, models.RoleBaker, models.RoleAccountant)).Get("/", orderHandler.ListOrders)
				r.With(auth.RequireRole(models.RoleSales, models.RoleBaker, models.RoleAccountant)).Get("/{orderId}", orderHandler.GetOrder)
				r.With(auth.RequireRole(models.RoleSales)).Post("/", orderHandler.CreateOrder)
				r.With(auth.RequireRole(models.RoleSales)).Put("/{orderId}", orderHandler.UpdateOrder)
				r.With(auth.RequireRole(models.RoleBaker, models.RoleSales)).Put("/{orderId}/status", orderHandler.UpdateStatus)
				r.With(auth.RequireRole(models.RoleSales)).Delete("/{orderId}", orderHandler.CancelOrder)
				r.With(auth.RequireRole(models.RoleSales, models.RoleBaker)).Get("/{orderId}/pickup-qr", orderHandler.PickupQR)
			})
			r.With(auth.RequireRole(models.RoleSales, models.RoleBaker)).Post("/pickup/verify", orderHandler.VerifyPickup)

			r.Route("/customers", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleSales))
				r.Get("/", customerHandler.ListCustomers)
				r.Get("/{customerId}", customerHandler.GetCustomer)
				r.Post("/", customerHandler.CreateCustomer)
				r.Put("/{customerId}", customerHandler.UpdateCustomer)
				r.Delete("/{customerId}", customerHandler.DeleteCustomer)
			})

			r.Route("/products", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleSales))
				r.Post("/", productHandler.CreateProduct)
				r.Put("/{productId}", productHandler.UpdateProduct)
				r.Delete("/{productId}", productHandler.DeleteProduct)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleAccountant, models.RoleSales))
				r.Post("/orders/{orderId}/deposit", paymentHandler.TakeDeposit)
				r.Get("/orders/{orderId}", paymentHandler.ListOrderPayments)
				r.Get("/{paymentId}", paymentHandler.GetPayment)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(auth.RequireRole(models.RoleOwner, models.RoleAccountant))
				r.Get("/production", reportHandler.ProductionReport)
				r.Get("/sales", reportHandler.SalesReport)
				r.Get("/flavors", reportHandler.FlavorReport)
				r.Get("/deposits", reportHandler.DepositReport)
			})

			r.Route("/toasts", func(r chi.Router) {
				r.Get("/", notifyHandler.ListActive)
				r.Get("/stream", notifyHandler.Stream)
				r.Delete("/{toastId}", notifyHandler.Dismiss)
			})
		})
		log.Info("ROUTER", "Back office routes registered under /api")
	})

	server := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// WriteTimeout stays unset so the toast SSE stream is not cut off.
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Bakery service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Server shut down gracefully")
	}
}
