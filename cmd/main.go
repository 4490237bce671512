package main

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/scenestack/scenestack/config"
	"github.com/scenestack/scenestack/internal/consumer"
	"github.com/scenestack/scenestack/internal/handlers"
	"github.com/scenestack/scenestack/internal/repositories"
	"github.com/scenestack/scenestack/internal/routers"
	"github.com/scenestack/scenestack/internal/services"
	"github.com/scenestack/scenestack/internal/storage"
	"github.com/scenestack/scenestack/internal/utils"
	"github.com/scenestack/scenestack/pkg/logger"
	"github.com/scenestack/scenestack/pkg/middlewares"
	"github.com/scenestack/scenestack/pkg/mq"
	pkgutils "github.com/scenestack/scenestack/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	// 初始化日志
	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer appLogger.Sync()

	// 初始化 JWT 密钥
	pkgutils.SetJWTSecret(cfg.JWT.Secret)

	// 初始化全局 Worker Pool (协程池)
	// 用于异步处理请求，防止高并发下 Goroutine 暴涨
	utils.InitGlobalWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("postgres 初始化失败: %v", err)
	}
	if err := storage.Migrate(postgres); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 初始化 Redis
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		log.Fatalf("redis 初始化失败: %v", err)
	}

	// 初始化限流器
	limiter := middlewares.NewRateLimiter(redisClient, appLogger.Logger, true)

	// 初始化仓储层
	userRepo := repositories.NewUserRepository(postgres)
	movieRepo := repositories.NewMovieRepository(postgres)
	watchRepo := repositories.NewWatchRepository(postgres)
	groupRepo := repositories.NewGroupRepository(postgres)
	feedRepo := repositories.NewFeedRepository(postgres)
	insightRepo := repositories.NewInsightRepository(postgres)

	// 初始化 Kafka Producer
	kafkaProducer, err := mq.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		log.Printf("Kafka 生产者初始化失败: %v。系统将以降级模式运行（直接写入数据库）。", err)
		kafkaProducer = nil
	} else {
		defer kafkaProducer.Close()
	}

	// 初始化服务层
	stagedStore := services.NewStagedActionStore(redisClient)
	tokenDenylist := services.NewTokenDenylist(redisClient)
	feedPublisher := services.NewFeedPublisher(kafkaProducer, feedRepo)
	authService := services.NewAuthService(userRepo, tokenDenylist)
	userService := services.NewUserService(userRepo, stagedStore)
	movieService := services.NewMovieService(movieRepo)
	watchService := services.NewWatchService(watchRepo, movieRepo, groupRepo, feedPublisher)
	groupService := services.NewGroupService(groupRepo, userRepo, feedPublisher)
	feedService := services.NewFeedService(feedRepo, groupRepo)
	insightService := services.NewInsightService(insightRepo, groupRepo)
	deletionService := services.NewDeletionService(userRepo, groupRepo, stagedStore, feedPublisher, cfg.Transfer.OutgoingCreatorRole)

	// 初始化 Kafka Consumer (如果 Kafka 可用)
	if kafkaProducer != nil {
		feedConsumer := consumer.NewFeedConsumer(feedRepo)
		consumer.StartConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, feedConsumer)
	}

	// 初始化处理器
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, deletionService)
	groupHandler := handlers.NewGroupHandler(groupService, feedService)
	movieHandler := handlers.NewMovieHandler(movieService)
	watchHandler := handlers.NewWatchHandler(watchService)
	insightHandler := handlers.NewInsightHandler(insightService, feedService)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// 设置路由
	routers.SetupRoutes(r,
		cfg,
		authHandler,
		userHandler,
		groupHandler,
		movieHandler,
		watchHandler,
		insightHandler,
		tokenDenylist,
		limiter,
	)

	// 启动服务器
	log.Printf("正在启动服务器，监听端口 :%d\n", cfg.Server.Port)
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
