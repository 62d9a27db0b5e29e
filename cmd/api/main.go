package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fooddelivery/internal/config"
	"fooddelivery/internal/database"
	"fooddelivery/internal/handler"
	"fooddelivery/internal/middleware"
	"fooddelivery/internal/monitor"
	"fooddelivery/internal/notify"
	"fooddelivery/internal/redis"
	"fooddelivery/internal/repository"
	"fooddelivery/internal/service/checkout"
	"fooddelivery/internal/service/payment"
	internalutils "fooddelivery/internal/utils"
	"fooddelivery/pkg/log"
	"fooddelivery/pkg/queue"
	"fooddelivery/pkg/snowflake"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := log.Init(log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.CreateIndexes(); err != nil {
		log.Warnf("Failed to create indexes: %v", err)
	}

	if err := redis.Init(&cfg.Redis); err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer redis.Close()

	shutdownTracer, err := monitor.InitTracer(&cfg.Tracing)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			log.Warnf("Tracer shutdown: %v", err)
		}
	}()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	db := database.GetDB()
	rdb := redis.GetClient()

	storeRepo := repository.NewStoreRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	stockLogRepo := repository.NewStockLogRepository(db)

	idGenerator, err := snowflake.NewIDGenerator(1)
	if err != nil {
		log.Fatalf("Failed to create ID generator: %v", err)
	}

	regionCache, err := checkout.NewRegionCache(storeRepo, &cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to create region cache: %v", err)
	}

	channel, err := buildChannel(cfg)
	if err != nil {
		log.Fatalf("Failed to create notification channel: %v", err)
	}
	dispatcher := notify.NewDispatcher(channel, &cfg.Queue)
	defer dispatcher.Close()

	validator := checkout.NewValidator(storeRepo, productRepo, regionCache, &cfg.Checkout)
	committer := checkout.NewCommitter(db, productRepo, orderRepo, stockLogRepo, idGenerator, rdb)
	paymentAdapter := payment.NewAdapter(payment.NewSimulatedGateway(), rdb, &cfg.Payment)
	checkoutService := checkout.NewService(
		validator, committer, paymentAdapter, dispatcher, orderRepo, cfg.Queue.SyncDispatch)

	jwtManager := internalutils.NewJWTManager(
		cfg.Security.JWT.Secret,
		cfg.Security.JWT.Expire,
		cfg.Security.JWT.Issuer,
	)

	router := setupRouter(cfg, jwtManager, checkoutService, storeRepo, productRepo)

	server := &http.Server{
		Addr:           cfg.Server.GetAddr(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Infof("Starting HTTP server on %s, mode: %s", server.Addr, cfg.Server.Mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

func buildChannel(cfg *config.Config) (notify.Channel, error) {
	switch cfg.Queue.Driver {
	case "amqp":
		return notify.NewAMQPChannel(cfg.Queue.URL, cfg.Queue.Exchange, cfg.Queue.RoutingKey)
	default:
		mq, err := queue.NewMemoryQueue(nil)
		if err != nil {
			return nil, err
		}
		return notify.NewMemoryChannel(mq, cfg.Queue.Topic), nil
	}
}

func setupRouter(
	cfg *config.Config,
	jwtManager *internalutils.JWTManager,
	checkoutService *checkout.Service,
	storeRepo *repository.StoreRepository,
	productRepo *repository.ProductRepository,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(&cfg.RateLimit))

	if cfg.Metrics.Enabled {
		router.Use(monitor.MetricsMiddleware())
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}
	if cfg.Tracing.Enabled {
		router.Use(monitor.TracingMiddleware())
	}

	router.GET("/health", healthCheck)
	router.GET("/ping", ping)

	orderHandler := handler.NewOrderHandler(checkoutService)
	storeHandler := handler.NewStoreHandler(storeRepo)
	productHandler := handler.NewProductHandler(productRepo)

	api := router.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			// public catalog
			v1.GET("/stores", storeHandler.ListStores)
			v1.GET("/stores/:id", storeHandler.GetStore)
			v1.GET("/stores/:id/products", productHandler.ListStoreProducts)
			v1.GET("/products/:id", productHandler.GetProduct)

			protected := v1.Group("")
			protected.Use(middleware.Auth(jwtManager))
			{
				// only customers place and refund orders; listing and
				// lookup stay role-scoped inside the service
				customerOnly := middleware.RequireRoles(internalutils.RoleCustomer)
				protected.POST("/orders", customerOnly, orderHandler.CreateCheckout)
				protected.GET("/orders", orderHandler.ListOrders)
				protected.GET("/orders/:id", orderHandler.GetOrder)
				protected.DELETE("/orders/:id", customerOnly, orderHandler.RefundOrder)
			}
		}
	}

	return router
}

func healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	dbErr := database.Health(ctx)
	redisErr := redis.Health(ctx)

	health := gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"services": gin.H{
			"database": statusOf(dbErr),
			"redis":    statusOf(redisErr),
		},
	}

	if dbErr != nil || redisErr != nil {
		health["status"] = "error"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}

	c.JSON(http.StatusOK, health)
}

func statusOf(err error) gin.H {
	if err != nil {
		return gin.H{"healthy": false, "error": err.Error()}
	}
	return gin.H{"healthy": true, "status": "connected"}
}

func ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": time.Now().Unix(),
	})
}
