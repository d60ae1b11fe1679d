package app

import (
	"context"
	"gamehub_backend/internal/config"
	"gamehub_backend/internal/controller"
	"gamehub_backend/internal/repository"
	"gamehub_backend/internal/service"
	"gamehub_backend/pkg/configwatcher"
	"gamehub_backend/pkg/database"
	"gamehub_backend/pkg/logger"
	"gamehub_backend/pkg/monitoring"
	"gamehub_backend/pkg/security"
	"gamehub_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services

	stopSweeper chan struct{}
}

type repositories struct {
	user       *repository.UserRepository
	submission *repository.SubmissionRepository
}

type services struct {
	auth       *service.AuthService
	submission *service.SubmissionService
	moderation *service.ModerationService
	retention  *service.RetentionService
	media      *service.MediaService
}

type controllers struct {
	auth       *controller.AuthController
	submission *controller.SubmissionController
	admin      *controller.AdminController
	media      *controller.MediaController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.submission = service.NewSubmissionService(repos.submission, service.NewCatalogClient(&cfg.Catalog), cfg.Quota)
	s.moderation = service.NewModerationService(repos.submission, repos.user, rdb)
	s.retention = service.NewRetentionService(repos.submission, cfg.Retention)

	media, err := service.NewMediaService(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize media storage", zap.Error(err))
	}
	s.media = media

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		submission: controller.NewSubmissionController(s.submission),
		admin:      controller.NewAdminController(s.submission, s.moderation, s.retention, repos.user),
		media:      controller.NewMediaController(s.media),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 100000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 启动保留策略定时清理
func (a *App) startBackgroundTasks(s *services) {
	interval := time.Duration(a.Config.Retention.SweepIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	a.stopSweeper = make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.retention.RunSweep(); err != nil {
					logger.Log.Error("retention sweep error", zap.Error(err))
				}
			case <-a.stopSweeper:
				return
			}
		}
	}()
}

// watchConfig 监听配置文件，热更新限额与保留策略
func (a *App) watchConfig(s *services) {
	go configwatcher.WatchConfig("configs/config.yaml", func(cfg *config.Config) {
		s.submission.UpdateQuota(cfg.Quota)
		s.retention.UpdateRetention(cfg.Retention)
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("gamehub-moderation", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)
	app.watchConfig(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.stopSweeper != nil {
		close(a.stopSweeper)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
