package app

import (
	"codestep_backend/internal/catalog"
	"codestep_backend/internal/config"
	"codestep_backend/internal/controller"
	"codestep_backend/internal/navigation"
	"codestep_backend/internal/repository"
	"codestep_backend/internal/resolver"
	"codestep_backend/internal/service"
	"codestep_backend/pkg/configwatcher"
	"codestep_backend/pkg/database"
	"codestep_backend/pkg/logger"
	"codestep_backend/pkg/markdown"
	"codestep_backend/pkg/monitoring"
	"codestep_backend/pkg/security"
	"codestep_backend/pkg/tracing"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigFile 热更新监听的配置文件
const ConfigFile = "configs/config.yaml"

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	ctx             context.Context
	cancel          context.CancelFunc
	tracer          *sdktrace.TracerProvider
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user          *repository.UserRepository
	learning      *repository.LearningRepository
	favorite      *repository.FavoriteRepository
	search        *repository.SearchRepository
	wrongQuestion *repository.WrongQuestionRepository
	migrationFlag *repository.MigrationFlagRepository
}

type services struct {
	catalog    *catalog.Catalog
	pathTable  catalog.PathTable
	store      service.ContentStore
	pathCache  resolver.Cache
	prober     resolver.Prober
	auth       *service.AuthService
	content    *service.ContentService
	learning   *service.LearningService
	favorite   *service.FavoriteService
	search     *service.SearchService
	quiz       *service.QuizService
	migration  *service.MigrationService
	navigation *navigation.Sessions
}

type controllers struct {
	health     *controller.HealthController
	auth       *controller.AuthController
	course     *controller.CourseController
	content    *controller.ContentController
	learning   *controller.LearningController
	favorite   *controller.FavoriteController
	search     *controller.SearchController
	quiz       *controller.QuizController
	navigation *controller.NavigationController
	migration  *controller.MigrationController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:          repository.NewUserRepository(db),
		learning:      repository.NewLearningRepository(db),
		favorite:      repository.NewFavoriteRepository(db),
		search:        repository.NewSearchRepository(db),
		wrongQuestion: repository.NewWrongQuestionRepository(db),
		migrationFlag: repository.NewMigrationFlagRepository(db),
	}
}

// newPathCache 动态策略的探测结果缓存，Redis 可用时跨实例共享
func newPathCache(cfg *config.Config, rdb *redis.Client) resolver.Cache {
	if cfg.Resolver.Cache == "redis" && rdb != nil {
		return resolver.NewRedisCache(rdb, cfg.Resolver.CacheTTL)
	}
	return resolver.NewMemoryCache()
}

// newProber 默认直接问存储后端，也可以对外部内容服务器发 HEAD 请求
func newProber(cfg *config.Config, store service.ContentStore) resolver.Prober {
	if cfg.Resolver.Prober == "http" && cfg.Storage.HTTPBaseURL != "" {
		return resolver.NewHTTPProber(cfg.Storage.HTTPBaseURL, cfg.Resolver.ProbeTimeout)
	}
	return resolver.ProberFunc(store.Exists)
}

func (s *services) newResolver(cfg *config.Config) (resolver.Resolver, error) {
	return resolver.NewStrategy(&cfg.Resolver, resolver.Deps{
		Catalog: s.catalog,
		Table:   s.pathTable,
		Prober:  s.prober,
		Cache:   s.pathCache,
	})
}

func (a *App) newHotSearchStore(rdb *redis.Client) service.HotSearchStore {
	if rdb != nil {
		store, err := service.NewRedisHotSearchStore(a.ctx, rdb, service.DefaultHotSearches())
		if err == nil {
			return store
		}
		logger.Log.Error("Failed to init redis hot search store, falling back to memory", zap.Error(err))
	}
	return service.NewMemoryHotSearchStore(service.DefaultHotSearches())
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	s := &services{
		catalog:   catalog.Default(),
		pathTable: catalog.DefaultPathTable(),
	}

	s.store = service.NewContentStore(cfg)
	s.pathCache = newPathCache(cfg, rdb)
	s.prober = newProber(cfg, s.store)

	r, err := s.newResolver(cfg)
	if err != nil {
		return nil, err
	}
	renderer := markdown.NewRenderer(markdown.Options{
		Style:        cfg.Content.HighlightStyle,
		AllowRawHTML: cfg.Content.AllowRawHTML,
	})

	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(s.catalog, s.pathTable, r, s.store, renderer)
	s.learning = service.NewLearningService(repos.learning, s.catalog)
	s.favorite = service.NewFavoriteService(repos.favorite)
	s.search = service.NewSearchService(repos.search, s.catalog, a.newHotSearchStore(rdb))
	s.quiz = service.NewQuizService(repos.wrongQuestion, s.catalog)
	s.migration = service.NewMigrationService(db, repos.migrationFlag, s.catalog)
	s.navigation = navigation.NewSessions(navigation.DefaultRouteTable(), cfg.Navigation.SessionTTL)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:     controller.NewHealthController(db, rdb, s.content),
		auth:       controller.NewAuthController(s.auth),
		course:     controller.NewCourseController(s.catalog),
		content:    controller.NewContentController(s.content),
		learning:   controller.NewLearningController(s.learning),
		favorite:   controller.NewFavoriteController(s.favorite),
		search:     controller.NewSearchController(s.search),
		quiz:       controller.NewQuizController(s.quiz),
		navigation: controller.NewNavigationController(s.navigation),
		migration:  controller.NewMigrationController(s.migration),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// onConfigChange 路径策略随配置热切换，其余配置需要重启
func (a *App) onConfigChange(cfg *config.Config) {
	r, err := a.services.newResolver(cfg)
	if err != nil {
		logger.Log.Error("Ignoring invalid path strategy", zap.String("strategy", cfg.Resolver.Strategy), zap.Error(err))
		return
	}
	a.services.content.SetResolver(r)
	a.Config.Resolver = cfg.Resolver
}

func (a *App) startBackgroundTasks(s *services, cfg *config.Config) {
	go s.navigation.Run(a.ctx, 0)

	s.migration.ScheduleCourseIDMigration(a.ctx, cfg.Migration.StartupDelay)

	if cfg.Resolver.PreloadOnRun {
		go func() {
			if err := s.content.Preload(a.ctx); err != nil {
				logger.Log.Error("Path preload failed", zap.Error(err))
			}
		}()
	}
}

func (a *App) watchConfig() {
	if _, err := os.Stat(ConfigFile); err != nil {
		logger.Log.Info("Config file not found, hot reload disabled", zap.String("file", ConfigFile))
		return
	}
	go func() {
		err := configwatcher.Watch(a.ctx, ConfigFile, func(cfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(cfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// build 组装应用但不启动后台任务和监听，便于测试直接使用 Router
func build(cfg *config.Config) (*App, error) {
	if err := catalog.Validate(catalog.Default(), catalog.DefaultPathTable()); err != nil {
		return nil, fmt.Errorf("invalid course catalog: %w", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		cancel()
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(app.onConfigChange)

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	app, err := build(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("codestep", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if cfg.Storage.Type == "local" {
		root, _ := filepath.Abs(cfg.Storage.LocalPath)
		logger.Log.Info("Serving course content from local directory", zap.String("root", root))
	}

	return app
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	a.cancel()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *App) Run() {
	a.startBackgroundTasks(a.services, a.Config)
	a.watchConfig()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
