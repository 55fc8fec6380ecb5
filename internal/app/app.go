package app

import (
	"context"
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

	"ecostep_backend/internal/bot"
	"ecostep_backend/internal/config"
	"ecostep_backend/internal/controller"
	"ecostep_backend/internal/repository"
	"ecostep_backend/internal/service"
	"ecostep_backend/pkg/database"
	"ecostep_backend/pkg/logger"
	"ecostep_backend/pkg/monitoring"
	"ecostep_backend/pkg/security"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Bot    *bot.Bot
}

type repositories struct {
	user       *repository.UserRepository
	challenge  *repository.ChallengeRepository
	custom     *repository.CustomChallengeRepository
	friendship *repository.FriendshipRepository
	adminLog   *repository.AdminLogRepository
}

type services struct {
	catalog       *service.CatalogService
	challenge     *service.ChallengeService
	progress      *service.ProgressService
	friendship    *service.FriendshipService
	auth          *service.AuthService
	notifications *service.NotificationService
}

type controllers struct {
	auth      *controller.AuthController
	challenge *controller.ChallengeController
	report    *controller.ReportController
	broadcast *controller.BroadcastController
	logs      *controller.LogController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		challenge:  repository.NewChallengeRepository(db),
		custom:     repository.NewCustomChallengeRepository(db),
		friendship: repository.NewFriendshipRepository(db, rdb),
		adminLog:   repository.NewAdminLogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}
	s.catalog = service.NewCatalogService(repos.custom)
	s.challenge = service.NewChallengeService(repos.challenge, s.catalog)
	s.progress = service.NewProgressService(repos.challenge, s.catalog)
	s.friendship = service.NewFriendshipService(repos.friendship, repos.user, s.progress)
	s.auth = service.NewAuthService(cfg.Admin)
	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, repos.adminLog),
		challenge: controller.NewChallengeController(s.catalog, repos.custom, repos.adminLog),
		report:    controller.NewReportController(repos.challenge, s.challenge, s.catalog, s.notifications, repos.adminLog),
		broadcast: controller.NewBroadcastController(s.notifications, repos.adminLog),
		logs:      controller.NewLogController(repos.adminLog),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)

	ecoBot, err := bot.New(cfg, repos.user, repos.challenge, services.catalog, services.challenge, services.progress, services.friendship)
	if err != nil {
		logger.Log.Fatal("Failed to initialize bot", zap.Error(err))
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	app.Bot = ecoBot
	services.notifications = service.NewNotificationService(ecoBot.Tele, cfg.Bot.Token, repos.user, repos.friendship)

	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, services)

	return app
}

// Run 机器人轮询跑在独立 goroutine，HTTP 服务占据主流程，收到信号后两边都优雅退出
func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go a.Bot.Start()

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	a.Bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
