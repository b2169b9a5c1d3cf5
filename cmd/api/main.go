package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodtrove/config"
	"github.com/pageza/foodtrove/internal/api"
	"github.com/pageza/foodtrove/internal/cache"
	"github.com/pageza/foodtrove/internal/client"
	"github.com/pageza/foodtrove/internal/database"
	"github.com/pageza/foodtrove/internal/middleware"
	"github.com/pageza/foodtrove/internal/router"
	"github.com/pageza/foodtrove/internal/server"
	"github.com/pageza/foodtrove/internal/service"
	"github.com/pageza/foodtrove/internal/storage"
)

// Device storage entries untouched for this long are pruned.
const (
	deviceRetention = 90 * 24 * time.Hour
	pruneInterval   = 6 * time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs the shared cache and rate limiting when configured
	var redisClient *redis.Client
	var cacheStore cache.Store = cache.NewMemoryStore()
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cacheStore = cache.NewRedisStore(redisClient, 24*time.Hour)
	}

	// Receipt archive is optional
	var receipts service.ReceiptArchiver
	s3Cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3: %v", err)
	}
	if s3Cfg != nil {
		receipts = s3Cfg
	}

	// Initialize services
	apiClient := client.New(cfg.APIBaseURL, cfg.APITimeout)
	store := storage.New(db)
	data := service.NewDataService(apiClient, apiClient, cacheStore, cfg.CacheTTL)
	carts := service.NewCartService(store, apiClient)
	wishlist := service.NewWishlistService(store)
	auth := service.NewAuthService(apiClient, store)
	tokens := service.NewSessionService(cfg.SessionSecret)
	checkout := service.NewCheckoutService(db, carts, receipts, cfg.DemoUserID)

	loginLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     10,
		IPLimit:   30,
		KeyPrefix: "login",
	})
	checkoutLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
		Window:    time.Minute,
		Limit:     5,
		KeyPrefix: "checkout",
	})

	layout := api.NewLayout(carts, wishlist, auth)
	engine, err := router.SetupRouter(router.Handlers{
		Store:    api.NewStoreHandler(layout, data, service.NewCategoryBrowsers(data), wishlist),
		Cart:     api.NewCartHandler(layout, carts, checkout, cfg.DemoUserID, checkoutLimiter.RateLimitMiddleware()),
		Wishlist: api.NewWishlistHandler(layout, data, wishlist),
		Auth:     api.NewAuthHandler(layout, auth, tokens, cfg.CookieSecure, loginLimiter.RateLimitMiddleware()),
		Recipes:  api.NewRecipeHandler(data),
		CartAPI:  api.NewCartAPIHandler(layout, data, carts, wishlist, cfg.DemoUserID),
	}, tokens, router.Options{
		CookieSecure: cfg.CookieSecure,
		AllowOrigins: cfg.AllowOrigin,
	})
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneDeviceStorage(ctx, store)

	srv := server.New(cfg, engine)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func pruneDeviceStorage(ctx context.Context, store *storage.Store) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PruneBefore(ctx, time.Now().Add(-deviceRetention))
			if err != nil {
				log.Printf("Failed to prune device storage: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Pruned %d device storage entries", n)
			}
		}
	}
}
