package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"wisefido-monitor/internal/config"
	"wisefido-monitor/internal/models"
)

// AssessmentCache Redis 评估结果缓存
// 实时快照用于面板轮询；离线缓存保存最近一次有效评估，
// 供持久化/网络协作方不可用时读取，超过 3600 秒视为不存在
type AssessmentCache struct {
	config      *config.Config
	redisClient *redis.Client
	logger      *zap.Logger
}

// NewAssessmentCache 创建评估缓存
func NewAssessmentCache(cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) *AssessmentCache {
	return &AssessmentCache{
		config:      cfg,
		redisClient: redisClient,
		logger:      logger,
	}
}

// snapshotKey 实时快照键
func (c *AssessmentCache) snapshotKey(deviceID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Monitor.Cache.SnapshotKeyPrefix,
		deviceID,
		c.config.Monitor.Cache.SnapshotSuffix,
	)
}

// offlineKey 离线缓存键
func (c *AssessmentCache) offlineKey(deviceID string) string {
	return fmt.Sprintf("%s%s%s",
		c.config.Monitor.Cache.SnapshotKeyPrefix,
		deviceID,
		c.config.Monitor.Cache.OfflineSuffix,
	)
}

// StoreSnapshot 写入实时评估快照（短 TTL）
func (c *AssessmentCache) StoreSnapshot(ctx context.Context, deviceID string, a models.Assessment) error {
	jsonData, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal assessment: %w", err)
	}

	ttl := time.Duration(c.config.Monitor.Cache.SnapshotTTL) * time.Second
	if err := c.redisClient.Set(ctx, c.snapshotKey(deviceID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set snapshot cache: %w", err)
	}

	c.logger.Debug("Updated assessment snapshot",
		zap.String("device_id", deviceID),
		zap.String("overall_status", a.OverallStatus),
	)

	return nil
}

// StoreOffline 写入离线缓存条目
// 条目携带 cached_at 与评估 ID：重连回放时按 ID 去重，避免重复写入
func (c *AssessmentCache) StoreOffline(ctx context.Context, deviceID string, a models.Assessment) error {
	entry := models.CachedAssessment{
		Assessment: a,
		CachedAt:   time.Now(),
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cached assessment: %w", err)
	}

	if err := c.redisClient.Set(ctx, c.offlineKey(deviceID), jsonData, models.CachedAssessmentTTL).Err(); err != nil {
		return fmt.Errorf("failed to set offline cache: %w", err)
	}

	return nil
}

// GetOffline 读取离线缓存的最近评估
// 键不存在或条目已过期都返回 (nil, nil)：过期即视为不存在
func (c *AssessmentCache) GetOffline(ctx context.Context, deviceID string) (*models.CachedAssessment, error) {
	val, err := c.redisClient.Get(ctx, c.offlineKey(deviceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offline cache: %w", err)
	}

	var entry models.CachedAssessment
	if err := json.Unmarshal([]byte(val), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached assessment: %w", err)
	}

	if entry.Expired(time.Now()) {
		return nil, nil
	}

	return &entry, nil
}

// GetSnapshot 读取实时评估快照
func (c *AssessmentCache) GetSnapshot(ctx context.Context, deviceID string) (*models.Assessment, error) {
	val, err := c.redisClient.Get(ctx, c.snapshotKey(deviceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("assessment snapshot not found for device: %s", deviceID)
		}
		return nil, fmt.Errorf("failed to get snapshot cache: %w", err)
	}

	var a models.Assessment
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assessment: %w", err)
	}

	return &a, nil
}
