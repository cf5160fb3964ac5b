package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-approval-service/config"
	"github.com/fekuna/omnipos-approval-service/internal/approval/listener"
	"github.com/fekuna/omnipos-approval-service/internal/auth"
	"github.com/fekuna/omnipos-approval-service/internal/database"
	"github.com/fekuna/omnipos-approval-service/internal/logger"
	"github.com/fekuna/omnipos-approval-service/internal/notify"

	eventRepoPkg "github.com/fekuna/omnipos-approval-service/internal/event/repository"
	eventUCPkg "github.com/fekuna/omnipos-approval-service/internal/event/usecase"
	lookupRepoPkg "github.com/fekuna/omnipos-approval-service/internal/lookup/repository"
	prodRepoPkg "github.com/fekuna/omnipos-approval-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-approval-service/internal/product/usecase"
	variantRepoPkg "github.com/fekuna/omnipos-approval-service/internal/variant/repository"
	variantUCPkg "github.com/fekuna/omnipos-approval-service/internal/variant/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.Open(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("db_name", cfg.Database.DBName),
	)

	// 4. Initialize Repositories
	lookupRepo := lookupRepoPkg.NewPGRepository(db)
	eventRepo := eventRepoPkg.NewPGRepository(db)
	variantRepo := variantRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)

	// 5. Initialize Change Notifiers
	notifiers := buildNotifiers(cfg, appLogger)
	defer notifiers.Close()
	notifier := notify.WithTimeout(notifiers, cfg.Notify.Timeout)

	// 6. Initialize UseCases
	eventUC := eventUCPkg.NewEventUseCase(eventRepo, appLogger,
		eventUCPkg.WithRequireRegistration(cfg.Approval.RequireRegistration),
	)
	variantUC := variantUCPkg.NewVariantUseCase(variantRepo, lookupRepo, eventUC, notifier, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, lookupRepo, eventUC, notifier, appLogger)

	// 7. Initialize Listener
	authorizer := auth.NewAuthorizer(cfg.JWT.SecretKey, cfg.Approval.PrivilegedRoles)
	reader := listener.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.CommandTopic, cfg.Kafka.GroupID)
	defer reader.Close()
	appLogger.Info("Connected to Kafka Consumer",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.CommandTopic),
	)
	approvalListener := listener.NewApprovalListener(reader, authorizer, prodUC, variantUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go approvalListener.Start(ctx)

	// 8. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

// buildNotifiers connects every configured backend. A backend that cannot
// connect is skipped with a warning; approvals still go through.
func buildNotifiers(cfg *config.Config, appLogger logger.ZapLogger) notify.Multi {
	var notifiers notify.Multi

	if cfg.Notify.HasBackend("redis") {
		redisClient, err := database.NewRedisClient(&database.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, cache invalidation disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, notify.NewRedisInvalidator(redisClient, cfg.Redis.KeyPrefix))
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	if cfg.Notify.HasBackend("kafka") {
		notifiers = append(notifiers, notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.ChangeTopic))
		appLogger.Info("Publishing approval changes to Kafka", zap.String("topic", cfg.Kafka.ChangeTopic))
	}

	if cfg.Notify.HasBackend("amqp") {
		publisher, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.ChangeQueue)
		if err != nil {
			appLogger.Warn("Could not connect to RabbitMQ, change queue disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, publisher)
			appLogger.Info("Publishing approval changes to RabbitMQ", zap.String("queue", cfg.AMQP.ChangeQueue))
		}
	}

	return notifiers
}
