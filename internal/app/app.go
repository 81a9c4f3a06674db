package app

import (
	"context"
	"exam_tracker_backend/internal/config"
	"exam_tracker_backend/internal/controller"
	"exam_tracker_backend/internal/repository"
	"exam_tracker_backend/internal/service"
	"exam_tracker_backend/internal/util"
	"exam_tracker_backend/pkg/configwatcher"
	"exam_tracker_backend/pkg/database"
	"exam_tracker_backend/pkg/logger"
	"exam_tracker_backend/pkg/monitoring"
	"exam_tracker_backend/pkg/security"
	"exam_tracker_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configDir       string
	configCallbacks []func(*config.Config)
	shutdownHooks   []func(context.Context)
}

type repositories struct {
	record    *repository.RecordRepository
	plan      *repository.PlanRepository
	knowledge *repository.KnowledgeRepository
	settings  *repository.SettingsRepository
	tracker   *repository.TrackerRepository
	pending   service.PendingImportStore
	feed      service.NotificationFeed
}

type services struct {
	normalizer   *service.Normalizer
	notification *service.NotificationService
	settings     *service.SettingsService
	plan         *service.PlanService
	record       *service.RecordService
	knowledge    *service.KnowledgeService
	importer     *service.ImportService
	export       *service.ExportService
	backup       *service.BackupService
	stats        *service.StatsService
	storage      service.StorageProvider
}

type controllers struct {
	health    *controller.HealthController
	record    *controller.RecordController
	plan      *controller.PlanController
	knowledge *controller.KnowledgeController
	settings  *controller.SettingsController
	imports   *controller.ImportController
	stats     *controller.StatsController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initRepositories Redis 未启用时，待确认导入和通知使用进程内存储
func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	repos := &repositories{
		record:    repository.NewRecordRepository(db),
		plan:      repository.NewPlanRepository(db),
		knowledge: repository.NewKnowledgeRepository(db),
		settings:  repository.NewSettingsRepository(db),
		tracker:   repository.NewTrackerRepository(db),
	}

	if rdb != nil {
		repos.pending = repository.NewRedisPendingImportStore(rdb)
		repos.feed = repository.NewRedisNotificationFeed(rdb)
	} else {
		repos.pending = repository.NewMemoryPendingImportStore()
		repos.feed = repository.NewMemoryNotificationFeed()
	}
	return repos
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.normalizer = service.NewNormalizer(cfg.Tracker.Location())
	s.notification = service.NewNotificationService(repos.feed)
	s.settings = service.NewSettingsService(repos.settings, cfg.SettingsDefaults)

	calc := service.NewProgressCalculator(s.normalizer)
	synchronizer := service.NewProgressSynchronizer(calc, s.notification)
	s.plan = service.NewPlanService(repos.plan, repos.record, s.normalizer, synchronizer)

	s.record = service.NewRecordService(repos.record, s.normalizer, s.settings, s.plan)
	s.knowledge = service.NewKnowledgeService(repos.knowledge)
	s.stats = service.NewStatsService(repos.record, s.normalizer)

	s.importer = service.NewImportService(
		s.normalizer,
		repos.record,
		repos.knowledge,
		repos.plan,
		s.settings,
		repos.tracker,
		repos.pending,
		s.plan,
		cfg.Tracker.PendingImportTTL(),
	)
	s.export = service.NewExportService(repos.record, repos.knowledge, repos.plan, s.settings, cfg.Tracker.Location())

	s.storage = service.NewStorageProvider(&cfg.Storage)
	s.backup = service.NewBackupService(s.export, s.importer, s.storage, cfg.Tracker.BackupPrefix)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:    controller.NewHealthController(db, rdb),
		record:    controller.NewRecordController(s.record),
		plan:      controller.NewPlanController(s.plan),
		knowledge: controller.NewKnowledgeController(s.knowledge),
		settings:  controller.NewSettingsController(s.settings),
		imports:   controller.NewImportController(s.importer, s.export, s.backup),
		stats:     controller.NewStatsController(s.stats, s.notification),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloadHooks 可热更新的配置：日志级别、导入保留时长、设置默认值
func (a *App) registerReloadHooks(s *services) {
	a.RegisterConfigCallback(logger.ApplyConfig)
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.importer.SetTTL(cfg.Tracker.PendingImportTTL())
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.settings.SetDefaults(cfg.SettingsDefaults)
	})
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	if interval := a.Config.Tracker.PlanSyncInterval(); interval > 0 {
		go a.runPlanSync(ctx, s, interval)
	}

	go func() {
		err := configwatcher.WatchConfig(ctx, filepath.Join(a.configDir, "config.yaml"), func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

// runPlanSync 定期重算计划进度，使过期计划在无新记录时也能变为未达成
func (a *App) runPlanSync(ctx context.Context, s *services, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := s.plan.SyncProgress(ctx); err != nil {
				logger.Log.Error("scheduled plan sync error", zap.Error(err))
			}
		}
	}
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config:    cfg,
		DB:        db,
		configDir: configDir,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)
	app.registerReloadHooks(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("exam-tracker", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.shutdownHooks = append(app.shutdownHooks, func(ctx context.Context) {
			if err := tp.Shutdown(ctx); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		})
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == util.StorageLocal {
		if err := os.MkdirAll(cfg.Storage.LocalPath, os.ModePerm); err != nil {
			logger.Log.Warn("Failed to create storage directory", zap.Error(err))
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	a.startBackgroundTasks(bgCtx, a.services)

	// 启动时同步一次，修正离线期间过期的计划
	if _, _, err := a.services.plan.SyncProgress(bgCtx); err != nil {
		logger.Log.Warn("Initial plan sync failed", zap.Error(err))
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
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	for _, hook := range a.shutdownHooks {
		hook(ctx)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	log.Println("Server exiting")
}
