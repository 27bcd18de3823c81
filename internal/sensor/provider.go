package sensor

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 辅助聚合数据缺失时的默认值
const (
	DefaultRespiratoryRate = 16.0
	DefaultActivityEnergy  = 250.0
	DefaultSleepRatio      = 0.8
)

// AncillaryProvider 辅助聚合数据提供方
// 呼吸率、活动能量、睡眠质量由传感器子系统另行聚合，这里只在边界上读取；
// 数据缺失不是错误，调用方使用默认值兜底
type AncillaryProvider interface {
	LatestRespiratoryRate(ctx context.Context, within time.Duration) (float64, bool)
	LatestActivityEnergy(ctx context.Context, within time.Duration) (float64, bool)
	LatestSleepRatio(ctx context.Context, within time.Duration) (float64, bool)
}

// RespiratoryRateOrDefault 读取呼吸率，缺失时返回默认值
func RespiratoryRateOrDefault(ctx context.Context, p AncillaryProvider, within time.Duration) float64 {
	if p != nil {
		if v, ok := p.LatestRespiratoryRate(ctx, within); ok {
			return v
		}
	}
	return DefaultRespiratoryRate
}

// ActivityEnergyOrDefault 读取活动能量，缺失时返回默认值
func ActivityEnergyOrDefault(ctx context.Context, p AncillaryProvider, within time.Duration) float64 {
	if p != nil {
		if v, ok := p.LatestActivityEnergy(ctx, within); ok {
			return v
		}
	}
	return DefaultActivityEnergy
}

// SleepRatioOrDefault 读取睡眠质量比例，缺失时返回默认值
func SleepRatioOrDefault(ctx context.Context, p AncillaryProvider, within time.Duration) float64 {
	if p != nil {
		if v, ok := p.LatestSleepRatio(ctx, within); ok {
			return v
		}
	}
	return DefaultSleepRatio
}

// RedisAncillaryProvider 从 Redis 实时缓存读取辅助聚合数据
// 键由传感器子系统写入，如 "vital-focus:monitor:<device>:resp_rate"
type RedisAncillaryProvider struct {
	redisClient *redis.Client
	keyPrefix   string
	deviceID    string
	logger      *zap.Logger
}

// NewRedisAncillaryProvider 创建 Redis 辅助数据提供方
func NewRedisAncillaryProvider(redisClient *redis.Client, keyPrefix, deviceID string, logger *zap.Logger) *RedisAncillaryProvider {
	return &RedisAncillaryProvider{
		redisClient: redisClient,
		keyPrefix:   keyPrefix,
		deviceID:    deviceID,
		logger:      logger,
	}
}

// LatestRespiratoryRate 最近呼吸率
func (p *RedisAncillaryProvider) LatestRespiratoryRate(ctx context.Context, within time.Duration) (float64, bool) {
	return p.latest(ctx, "resp_rate")
}

// LatestActivityEnergy 最近活动能量
func (p *RedisAncillaryProvider) LatestActivityEnergy(ctx context.Context, within time.Duration) (float64, bool) {
	return p.latest(ctx, "activity_energy")
}

// LatestSleepRatio 最近睡眠质量比例
func (p *RedisAncillaryProvider) LatestSleepRatio(ctx context.Context, within time.Duration) (float64, bool) {
	return p.latest(ctx, "sleep_ratio")
}

// latest 读取单个辅助指标；键不存在或解析失败都视为数据缺失
func (p *RedisAncillaryProvider) latest(ctx context.Context, field string) (float64, bool) {
	key := p.keyPrefix + p.deviceID + ":" + field

	val, err := p.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			p.logger.Warn("Failed to read ancillary metric",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return 0, false
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		p.logger.Warn("Invalid ancillary metric value",
			zap.String("key", key),
			zap.String("value", val),
		)
		return 0, false
	}

	return f, true
}

// StaticAncillaryProvider 固定值提供方（测试及无传感器环境使用）
type StaticAncillaryProvider struct {
	RespiratoryRate *float64
	ActivityEnergy  *float64
	SleepRatio      *float64
}

// LatestRespiratoryRate 固定呼吸率
func (p *StaticAncillaryProvider) LatestRespiratoryRate(ctx context.Context, within time.Duration) (float64, bool) {
	if p.RespiratoryRate == nil {
		return 0, false
	}
	return *p.RespiratoryRate, true
}

// LatestActivityEnergy 固定活动能量
func (p *StaticAncillaryProvider) LatestActivityEnergy(ctx context.Context, within time.Duration) (float64, bool) {
	if p.ActivityEnergy == nil {
		return 0, false
	}
	return *p.ActivityEnergy, true
}

// LatestSleepRatio 固定睡眠质量比例
func (p *StaticAncillaryProvider) LatestSleepRatio(ctx context.Context, within time.Duration) (float64, bool) {
	if p.SleepRatio == nil {
		return 0, false
	}
	return *p.SleepRatio, true
}
