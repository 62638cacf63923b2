package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/config"
	infraCache "foodgram-backend/internal/infrastructure/cache"
	"foodgram-backend/internal/infrastructure/database"
	"foodgram-backend/internal/infrastructure/export"
	"foodgram-backend/internal/infrastructure/storage"
	"foodgram-backend/pkg/cache"
	"foodgram-backend/pkg/jwt"
	"foodgram-backend/pkg/ratelimit"

	catalogHandler "foodgram-backend/internal/domains/catalog/handler"
	catalogRepo "foodgram-backend/internal/domains/catalog/repository"
	catalogService "foodgram-backend/internal/domains/catalog/service"
	membershipHandler "foodgram-backend/internal/domains/membership/handler"
	membershipModel "foodgram-backend/internal/domains/membership/model"
	membershipRepo "foodgram-backend/internal/domains/membership/repository"
	membershipService "foodgram-backend/internal/domains/membership/service"
	recipeHandler "foodgram-backend/internal/domains/recipe/handler"
	recipeModel "foodgram-backend/internal/domains/recipe/model"
	recipeRepo "foodgram-backend/internal/domains/recipe/repository"
	recipeService "foodgram-backend/internal/domains/recipe/service"
	shoppingHandler "foodgram-backend/internal/domains/shoppinglist/handler"
	shoppingService "foodgram-backend/internal/domains/shoppinglist/service"
	userHandler "foodgram-backend/internal/domains/user/handler"
	userRepo "foodgram-backend/internal/domains/user/repository"
	userService "foodgram-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// Dùng chung cho cmd/api và cmd/worker
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisCache // nil khi Redis không sẵn sàng
	Cache       cache.Cache            // Redis hoặc MemoryCache fallback
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client // nil khi Redis không sẵn sàng
	Storage     *storage.MinIOStorage
	Images      *storage.ImageProcessor

	Metrics      *prometheus.Registry
	PoolMetrics  *database.PoolMetrics
	LoginLimiter *ratelimit.KeyedRateLimiter
	Revocations  *userRepo.TokenRevocationStore

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo       userRepo.RepositoryInterface
	CatalogRepo    catalogRepo.Repository
	RecipeRepo     recipeRepo.RepositoryInterface
	MembershipRepo membershipRepo.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService         userService.UserService
	SubscriptionService userService.SubscriptionService
	CatalogService      catalogService.ServiceInterface
	RecipeService       recipeService.RecipeService
	ImageService        recipeService.ImageService
	ImageSweeper        recipeService.ImageSweeper
	MembershipService   membershipService.Service
	ShoppingListService shoppingService.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler         *userHandler.UserHandler
	SubscriptionHandler *userHandler.SubscriptionHandler
	CatalogHandler      *catalogHandler.CatalogHandler
	RecipeHandler       *recipeHandler.RecipeHandler
	FavoriteHandler     *membershipHandler.MembershipHandler
	CartHandler         *membershipHandler.MembershipHandler
	ShoppingListHandler *shoppingHandler.ShoppingListHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo toàn bộ dependency graph theo thứ tự:
// Config → Infrastructure → Repositories → Services → Handlers
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container...")
	c := &Container{}

	// STEP 1: LOAD CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// STEP 2: INFRASTRUCTURE
	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 3..5: DOMAIN LAYERS
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Str("env", cfg.App.Environment).Msg("DI container initialized")
	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// ----------------------------------------
	// DATABASE
	// ----------------------------------------
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(dbConfig)
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ----------------------------------------
	// REDIS (non-critical)
	// ----------------------------------------
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis lỗi: cache + revocation chạy in-memory, không enqueue task ảnh
		log.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
		_ = redisCache.Close()
		c.Cache = cache.NewMemoryCache()
	} else {
		c.Redis = redisCache
		c.Cache = redisCache
		c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
	}

	// ----------------------------------------
	// OBJECT STORAGE
	// ----------------------------------------
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minioStorage
	c.Images = storage.NewImageProcessor()

	// ----------------------------------------
	// AUTH, METRICS, RATE LIMIT
	// ----------------------------------------
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	c.Revocations = userRepo.NewTokenRevocationStore(c.Cache)

	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.PoolMetrics = database.NewPoolMetrics(c.Metrics)

	c.LoginLimiter = ratelimit.New(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.RecipeRepo = recipeRepo.NewPostgresRepository(pool, pool)
	c.MembershipRepo = membershipRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	// Interface phải nhận nil thật sự (untyped) khi không có asynq client
	var tasks recipeService.TaskEnqueuer
	if c.AsynqClient != nil {
		tasks = c.AsynqClient
	}

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, c.Revocations)
	c.SubscriptionService = userService.NewSubscriptionService(c.UserRepo, c.RecipeRepo)
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo, c.Cache)

	c.RecipeService = recipeService.NewRecipeService(
		c.RecipeRepo,
		c.MembershipRepo,
		c.UserRepo,
		c.Images,
		c.Storage,
		tasks,
		recipeModel.Rules{
			MinNameLength:  cfg.Recipe.MinNameLength,
			MinTextLength:  cfg.Recipe.MinTextLength,
			MinCookingTime: cfg.Recipe.MinCookingTime,
		},
	)
	c.ImageService = recipeService.NewImageService(c.Storage, c.Images)
	c.ImageSweeper = recipeService.NewImageSweeper(c.Storage, c.RecipeRepo, c.ImageService, cfg.Worker.SweepGrace)

	c.MembershipService = membershipService.NewMembershipService(c.MembershipRepo, c.RecipeRepo)
	c.ShoppingListService = shoppingService.NewShoppingListService(
		c.MembershipService,
		c.RecipeRepo,
		cfg.Export.FileName,
		export.NewPDFRenderer(cfg.Export.FontPath),
		export.NewExcelRenderer(),
	)
}

func (c *Container) initHandlers() {
	pageSize := c.Config.Recipe.PageSize

	c.UserHandler = userHandler.NewUserHandler(c.UserService, pageSize)
	c.SubscriptionHandler = userHandler.NewSubscriptionHandler(c.SubscriptionService, pageSize)
	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService)
	c.RecipeHandler = recipeHandler.NewRecipeHandler(c.RecipeService, pageSize)
	c.FavoriteHandler = membershipHandler.NewMembershipHandler(c.MembershipService, membershipModel.KindFavorite)
	c.CartHandler = membershipHandler.NewMembershipHandler(c.MembershipService, membershipModel.KindShoppingCart)
	c.ShoppingListHandler = shoppingHandler.NewShoppingListHandler(c.ShoppingListService)
}

// RedisClientOpt dùng chung cho asynq client, server và scheduler
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// StartPoolMonitor đẩy pool stats vào prometheus cho tới khi ctx bị cancel
func (c *Container) StartPoolMonitor(ctx context.Context, interval time.Duration) {
	go c.DB.MonitorPoolHealth(ctx, interval, c.PoolMetrics.Observe)
}

// Cleanup dọn dẹp resources khi shutdown. Gọi nhiều lần vẫn an toàn
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
		c.AsynqClient = nil
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
		c.Redis = nil
	}

	if c.LoginLimiter != nil {
		c.LoginLimiter.Stop()
		c.LoginLimiter = nil
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	log.Info().Msg("Container cleanup completed")
}
