package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runpal_backend/internal/config"
	"runpal_backend/internal/controller"
	"runpal_backend/internal/repository"
	"runpal_backend/internal/service"
	"runpal_backend/pkg/configwatcher"
	"runpal_backend/pkg/database"
	"runpal_backend/pkg/logger"
	"runpal_backend/pkg/monitoring"
	"runpal_backend/pkg/security"
	"runpal_backend/pkg/tracing"
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
}

type repositories struct {
	user      *repository.UserRepository
	character *repository.CharacterRepository
	run       *repository.RunRepository
	catalog   *repository.CatalogRepository
	unlock    *repository.UnlockRepository
	inventory *repository.InventoryRepository
	ledger    *repository.LedgerRepository
	checkin   *repository.CheckinRepository
	referral  *repository.ReferralRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	catalog     *service.CatalogService
	medal       *service.MedalService
	character   *service.CharacterService
	checkin     *service.CheckInService
	progression *service.ProgressionService
	referral    *service.ReferralService
	weather     *service.WeatherService
	special     *service.SpecialRewardService
	run         *service.RunService
	strava      *service.StravaService
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	run       *controller.RunController
	checkin   *controller.CheckinController
	medal     *controller.MedalController
	catalog   *controller.CatalogController
	character *controller.CharacterController
	referral  *controller.ReferralController
	strava    *controller.StravaController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		character: repository.NewCharacterRepository(db),
		run:       repository.NewRunRepository(db),
		catalog:   repository.NewCatalogRepository(db, rdb),
		unlock:    repository.NewUnlockRepository(db),
		inventory: repository.NewInventoryRepository(db),
		ledger:    repository.NewLedgerRepository(db),
		checkin:   repository.NewCheckinRepository(db),
		referral:  repository.NewReferralRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	rng := service.NewLockedRand(time.Now().UnixNano())

	s.storage = service.NewStorageService(cfg)
	s.catalog = service.NewCatalogService(repos.catalog, rng)
	s.medal = service.NewMedalService(repos.ledger, repos.catalog, repos.inventory)
	s.character = service.NewCharacterService(repos.character, repos.user)
	s.checkin = service.NewCheckInService(repos.checkin, repos.user, rng)
	s.progression = service.NewProgressionService(repos.character, s.medal)
	s.referral = service.NewReferralService(repos.referral, repos.user, s.medal)
	applyRewardConfig(s.referral, &cfg.Reward)

	s.weather = service.NewWeatherService(&cfg.Weather, rdb)
	s.special = service.NewSpecialRewardService(repos.catalog, repos.unlock)

	s.run = service.NewRunService(
		repos.run,
		repos.character,
		s.catalog,
		service.NewRarityRoller(rng),
		s.special,
		s.weather,
		repos.unlock,
		repos.inventory,
		s.medal,
		s.progression,
		s.referral,
	)

	s.strava = service.NewStravaService(repos.user, s.run, &cfg.Strava, rdb)
	s.auth = service.NewAuthService(repos.user, repos.character, s.referral, cfg)

	return s
}

// applyRewardConfig 推荐奖励参数的配置覆盖，零值保持默认
func applyRewardConfig(referral *service.ReferralService, cfg *config.RewardConfig) {
	if cfg.ReferralWelcomeBonus > 0 {
		referral.WelcomeBonus = cfg.ReferralWelcomeBonus
	}
	if cfg.ReferralSignupBonus > 0 {
		referral.SignupBonus = cfg.ReferralSignupBonus
	}
	if cfg.ReferralFirstRun > 0 {
		referral.FirstRunBonus = cfg.ReferralFirstRun
	}
	if cfg.ReferralPerRun > 0 {
		referral.PerRunBonus = cfg.ReferralPerRun
	}
	if cfg.ReferralMaxTotal > 0 {
		referral.MaxTotal = cfg.ReferralMaxTotal
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.auth, s.storage),
		run:       controller.NewRunController(s.run, s.auth),
		checkin:   controller.NewCheckinController(s.checkin),
		medal:     controller.NewMedalController(s.medal, s.character),
		catalog:   controller.NewCatalogController(s.catalog, s.medal),
		character: controller.NewCharacterController(s.character),
		referral:  controller.NewReferralController(s.referral),
		strava:    controller.NewStravaController(s.strava),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
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

// watchConfig 配置文件热更新：目前只有推荐奖励参数支持运行时调整
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(newCfg interface{}) {
		cfg, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		applyRewardConfig(a.services.referral, &cfg.Reward)
		logger.Log.Info("Reward config reloaded")
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
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

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("runpal-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
