package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/allocator"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/cache"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/config"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/events"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/gen"
	apihttp "github.com/nofari1993-ISR/floriisrael-sub000/internal/http"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/repository"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/service"
	"github.com/nofari1993-ISR/floriisrael-sub000/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()
	logger := zlog.Sugar()

	// Database setup
	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	db, err := repository.Connect(creds)
	if err != nil {
		logger.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(db, creds); err != nil {
		logger.Fatalw("failed to run migrations", "error", err)
	}
	logger.Info("database migrations completed")

	shopRepo := repository.NewShopRepository(db)
	flowerRepo := repository.NewFlowerRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Search cache
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	searchCache := cache.NewRedisCache(redisClient)

	// Wizard sessions: MongoDB when configured, in-memory otherwise.
	var sessionStore session.Store
	if cfg.MongoURI != "" {
		mongoCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		mongoDB, err := session.ConnectMongo(mongoCtx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			logger.Fatalw("failed to connect to mongodb", "error", err)
		}
		defer mongoDB.Client().Disconnect(context.Background())
		sessionStore = session.NewMongoStore(mongoDB)
	} else {
		logger.Info("MONGO_URI not set, using in-memory session store")
		memStore := session.NewMemoryStore()
		defer memStore.Close()
		sessionStore = memStore
	}

	// Order events
	publisher := events.NewPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
	defer publisher.Close()

	// Gemini
	genClient, err := gen.NewGeminiClient(gen.GeminiConfig{
		APIKey:     cfg.GeminiAPIKey,
		TextModel:  cfg.GeminiTextModel,
		ImageModel: cfg.GeminiImageModel,
	}, logger)
	if err != nil {
		logger.Fatalw("failed to init generation client", "error", err)
	}

	// Services
	shopSvc := service.NewShopService(shopRepo, searchCache, logger)
	bouquetSvc := service.NewBouquetService(sessionStore, shopRepo, flowerRepo, genClient, allocator.New(logger), logger)
	orderSvc := service.NewOrderService(orderRepo, shopRepo, flowerRepo, publisher, logger)

	// Background shelf-life sweep
	sweeperCtx, sweeperCancel := context.WithCancel(context.Background())
	defer sweeperCancel()
	go service.NewExpirySweeper(flowerRepo, logger).Run(sweeperCtx)

	router := apihttp.NewRouter(apihttp.RouterConfig{
		Shops:          apihttp.NewShopHandler(shopSvc),
		Flowers:        apihttp.NewFlowerHandler(flowerRepo),
		Orders:         apihttp.NewOrderHandler(orderSvc),
		Wizard:         apihttp.NewWizardHandler(bouquetSvc),
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      http.MaxBytesHandler(router, cfg.MaxRequestBodySize),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infow("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalw("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
