package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sdo_backend/internal/config"
	"sdo_backend/internal/controller"
	"sdo_backend/internal/middleware"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"
	"sdo_backend/pkg/configwatcher"
	"sdo_backend/pkg/database"
	"sdo_backend/pkg/logger"
	"sdo_backend/pkg/monitoring"
	"sdo_backend/pkg/security"
	"sdo_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	taskCase   *repository.TaskCaseRepository
	task       *repository.TaskRepository
	variant    *repository.VariantRepository
	relation   *repository.RelationRepository
	membership *repository.MembershipRepository
	answer     *repository.AnswerRepository
	review     *repository.ReviewRepository
	selection  *repository.SelectionRepository
	stats      *repository.StatsRepository
	note       *repository.NoteRepository
	counts     *repository.CountsCache
}

type services struct {
	lifecycle  *service.LifecycleService
	assignment *service.AssignmentService
	completion *service.CompletionService
	stats      *service.StatsService
	progress   *service.ProgressService
	taskCase   *service.TaskCaseService
	task       *service.TaskService
	user       *service.UserService
	note       *service.NoteService
}

type controllers struct {
	lifecycle  *controller.LifecycleController
	assignment *controller.AssignmentController
	dashboard  *controller.DashboardController
	taskCase   *controller.TaskCaseController
	task       *controller.TaskController
	user       *controller.UserController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig hands a reloaded configuration to every registered callback.
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		taskCase:   repository.NewTaskCaseRepository(db),
		task:       repository.NewTaskRepository(db),
		variant:    repository.NewVariantRepository(db),
		relation:   repository.NewRelationRepository(db),
		membership: repository.NewMembershipRepository(db),
		answer:     repository.NewAnswerRepository(db),
		review:     repository.NewReviewRepository(db),
		selection:  repository.NewSelectionRepository(db),
		stats:      repository.NewStatsRepository(db),
		note:       repository.NewNoteRepository(db),
		counts:     repository.NewCountsCache(rdb, time.Duration(cfg.Redis.CacheTTLSeconds)*time.Second),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.lifecycle = service.NewLifecycleService(
		db,
		repos.user,
		repos.task,
		repos.variant,
		repos.relation,
		repos.answer,
		repos.review,
		repos.selection,
		repos.membership,
		repos.stats,
		repos.counts,
		cfg.Lifecycle.StrictTransitions,
	)
	s.assignment = service.NewAssignmentService(db, repos.user, repos.task, repos.taskCase, repos.relation, repos.membership, repos.counts)
	s.completion = service.NewCompletionService(db, repos.taskCase, repos.relation, repos.membership, repos.counts)
	s.stats = service.NewStatsService(repos.stats, repos.user, repos.taskCase, repos.membership, repos.counts)
	s.progress = service.NewProgressService(
		repos.task,
		repos.taskCase,
		repos.variant,
		repos.relation,
		repos.membership,
		repos.answer,
		repos.selection,
	)
	s.taskCase = service.NewTaskCaseService(repos.taskCase, repos.membership, repos.counts)
	s.task = service.NewTaskService(repos.task, repos.taskCase, repos.variant, repos.relation, repos.counts)
	s.user = service.NewUserService(repos.user, repos.membership, repos.counts)
	s.note = service.NewNoteService(repos.note, repos.user)

	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.lifecycle.SetStrict(cfg.Lifecycle.StrictTransitions)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		lifecycle:  controller.NewLifecycleController(s.lifecycle, s.progress, s.stats),
		assignment: controller.NewAssignmentController(s.assignment, s.completion),
		dashboard:  controller.NewDashboardController(s.stats, s.progress),
		taskCase:   controller.NewTaskCaseController(s.taskCase),
		task:       controller.NewTaskController(s.task),
		user:       controller.NewUserController(s.user, s.note),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, "/api/health", "/metrics"))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go s.stats.RunReviewGauge(ctx, time.Minute)
}

// NewApp wires the application. With cfg.MigrateOnly it stops after migrating.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	app.Redis = rdb

	app.RegisterConfigCallback(logger.ApplyConfig)

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()
	util.RegisterValidators()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("sdo-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

// Run serves HTTP until SIGINT/SIGTERM, then shuts down gracefully.
// configFile, when set, is watched and reloaded on change.
func (a *App) Run(configFile string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.startBackgroundTasks(ctx, a.services)

	if configFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, configFile, a.ApplyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
}
