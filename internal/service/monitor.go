package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"wisefido-monitor/internal/alert"
	"wisefido-monitor/internal/cache"
	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/monitor"
	"wisefido-monitor/internal/notify"
	"wisefido-monitor/internal/repository"
	"wisefido-monitor/internal/sensor"
)

// MonitorService 心率监测服务
// 负责装配数据库、Redis、MQTT、通知与监测会话，并管理其生命周期
type MonitorService struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
	deviceID    string

	assessmentsRepo *repository.AssessmentsRepository
	assessmentCache *cache.AssessmentCache
	session         *monitor.Session
}

// NewMonitorService 创建监测服务
func NewMonitorService(cfg *config.Config, logger *zap.Logger, deviceID string) (*MonitorService, error) {
	// 1. 连接数据库
	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdle)

	// 测试数据库连接
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 2. 连接 Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// 3. 创建传感器采样来源（连接失败视为传感器不可用，服务不启动）
	source, err := sensor.NewMQTTSource(&cfg.MQTT, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sample source: %w", err)
	}

	// 4. 创建通知分发器（未配置 webhook 时只更新状态，不外发）
	var dispatcher notify.Dispatcher = notify.NopDispatcher{}
	if cfg.Notify.WebhookURL != "" {
		dispatcher = notify.NewWebhookDispatcher(cfg.Notify.WebhookURL, logger)
	}

	// 5. 创建 Repository 与缓存层
	assessmentsRepo := repository.NewAssessmentsRepository(db, logger)
	assessmentCache := cache.NewAssessmentCache(cfg, redisClient, logger)

	// 6. 创建报警引擎与监测会话
	engine := alert.NewEngine(cfg.Alert, dispatcher, logger)
	ancillary := sensor.NewRedisAncillaryProvider(redisClient, cfg.Monitor.Cache.SnapshotKeyPrefix, deviceID, logger)

	profile := monitor.Profile{
		Age:               cfg.Profile.Age,
		BaselineRestingHR: cfg.Profile.BaselineRestingHR,
		EstimatedMaxHR:    cfg.Monitor.EstimatedMaxHR,
		HRRecovery1Min:    cfg.Profile.HRRecovery1Min,
		HRRecovery2Min:    cfg.Profile.HRRecovery2Min,
		TimeToTargetSec:   cfg.Profile.TimeToTargetSec,
	}

	session := monitor.NewSession(
		cfg,
		deviceID,
		profile,
		source,
		ancillary,
		engine,
		assessmentsRepo,
		assessmentCache,
		logger,
	)

	return &MonitorService{
		config:          cfg,
		db:              db,
		redisClient:     redisClient,
		logger:          logger,
		deviceID:        deviceID,
		assessmentsRepo: assessmentsRepo,
		assessmentCache: assessmentCache,
		session:         session,
	}, nil
}

// Start 启动服务
func (s *MonitorService) Start(ctx context.Context) error {
	s.logger.Info("Starting monitor service",
		zap.String("device_id", s.deviceID),
	)

	if err := s.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor session: %w", err)
	}

	return nil
}

// Stop 停止服务
func (s *MonitorService) Stop() error {
	s.logger.Info("Stopping monitor service")

	s.session.Stop()

	// 关闭数据库连接
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database",
			zap.Error(err),
		)
	}

	// 关闭 Redis 连接
	if err := s.redisClient.Close(); err != nil {
		s.logger.Error("Failed to close redis",
			zap.Error(err),
		)
	}

	return nil
}
