package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizbank_backend/internal/config"
	"quizbank_backend/internal/controller"
	"quizbank_backend/internal/repository"
	"quizbank_backend/internal/service"
	"quizbank_backend/pkg/configwatcher"
	"quizbank_backend/pkg/database"
	"quizbank_backend/pkg/logger"
	"quizbank_backend/pkg/monitoring"
	"quizbank_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	config *config.Config
	router *gin.Engine
	db     *gorm.DB
	cache  *redis.Client

	watcher *configwatcher.Watcher

	userRepo          *repository.UserRepository
	teacherRepo       *repository.TeacherRepository
	departmentRepo    *repository.DepartmentRepository
	subjectRepo       *repository.SubjectRepository
	questionnaireRepo *repository.QuestionnaireRepository
	questionRepo      *repository.QuestionRepository
	downloadRepo      *repository.DownloadRepository
	activityRepo      *repository.ActivityRepository

	storage          service.StorageProvider
	activitySvc      *service.ActivityService
	authSvc          *service.AuthService
	aiSvc            *service.AIService
	extractionSvc    *service.ExtractionService
	questionnaireSvc *service.QuestionnaireService
	catalogSvc       *service.CatalogService
	teacherSvc       *service.TeacherService
	dashboardSvc     *service.DashboardService

	authCtl          *controller.AuthController
	questionnaireCtl *controller.QuestionnaireController
	departmentCtl    *controller.DepartmentController
	subjectCtl       *controller.SubjectController
	teacherCtl       *controller.TeacherController
	activityCtl      *controller.ActivityController
	dashboardCtl     *controller.DashboardController
	healthCtl        *controller.HealthController
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{config: cfg, db: db}
	}

	cache, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The subject cache degrades to database reads without Redis.
		logger.Log.Warn("redis unavailable, caching disabled", zap.Error(err))
		cache = nil
	}

	monitoring.Init()

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("quizbank-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Warn("failed to initialize tracing", zap.Error(err))
		}
	}

	app := &App{
		config: cfg,
		db:     db,
		cache:  cache,
	}

	app.initRepositories()
	app.initServices()
	app.initControllers()
	app.setupRouter()
	app.watchConfig()

	return app
}

func (a *App) initRepositories() {
	a.userRepo = repository.NewUserRepository(a.db)
	a.teacherRepo = repository.NewTeacherRepository(a.db)
	a.departmentRepo = repository.NewDepartmentRepository(a.db)
	a.subjectRepo = repository.NewSubjectRepository(a.db)
	a.questionnaireRepo = repository.NewQuestionnaireRepository(a.db)
	a.questionRepo = repository.NewQuestionRepository(a.db)
	a.downloadRepo = repository.NewDownloadRepository(a.db)
	a.activityRepo = repository.NewActivityRepository(a.db)
}

func (a *App) initServices() {
	storage, err := service.NewStorageProvider(&a.config.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	a.storage = storage

	a.activitySvc = service.NewActivityService(a.activityRepo)
	a.authSvc = service.NewAuthService(a.userRepo, a.activitySvc, a.config)
	a.aiSvc = service.NewAIService(&a.config.AI)
	a.extractionSvc = service.NewExtractionService(
		a.questionnaireRepo, a.questionRepo, a.storage, a.aiSvc, a.activitySvc)
	a.questionnaireSvc = service.NewQuestionnaireService(
		a.questionnaireRepo, a.questionRepo, a.downloadRepo,
		a.storage, a.extractionSvc, a.activitySvc, a.config)
	a.catalogSvc = service.NewCatalogService(
		a.departmentRepo, a.subjectRepo, a.activitySvc, a.cache)
	a.teacherSvc = service.NewTeacherService(a.teacherRepo, a.userRepo, a.activitySvc)
	a.dashboardSvc = service.NewDashboardService(
		a.questionnaireRepo, a.questionRepo, a.teacherRepo,
		a.departmentRepo, a.subjectRepo, a.downloadRepo)
}

func (a *App) initControllers() {
	a.authCtl = controller.NewAuthController(a.authSvc)
	a.questionnaireCtl = controller.NewQuestionnaireController(a.questionnaireSvc)
	a.departmentCtl = controller.NewDepartmentController(a.catalogSvc)
	a.subjectCtl = controller.NewSubjectController(a.catalogSvc)
	a.teacherCtl = controller.NewTeacherController(a.teacherSvc)
	a.activityCtl = controller.NewActivityController(a.activitySvc)
	a.dashboardCtl = controller.NewDashboardController(a.dashboardSvc)
	a.healthCtl = controller.NewHealthController(a.db, a.cache)
}

func (a *App) watchConfig() {
	watcher, err := configwatcher.New("configs/config.yaml", logger.Log, func() {
		cfg, err := config.LoadConfig("configs")
		if err != nil {
			logger.Log.Warn("config reload failed", zap.Error(err))
			return
		}
		// Only settings read per request can change at runtime.
		a.config.Upload = cfg.Upload
		a.config.AI = cfg.AI
		logger.Log.Info("config reloaded")
	})
	if err != nil {
		logger.Log.Warn("config watcher disabled", zap.Error(err))
		return
	}
	a.watcher = watcher
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.config.Server.Port,
		Handler: a.router,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("port", a.config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server")

	if a.watcher != nil {
		a.watcher.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}

	if a.cache != nil {
		a.cache.Close()
	}

	logger.Log.Info("server stopped")
}
