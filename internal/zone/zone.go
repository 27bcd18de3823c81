package zone

import (
	"wisefido-monitor/internal/models"
)

// DefaultEstimatedMaxHR 默认估计最大心率（调用方未提供时使用）
const DefaultEstimatedMaxHR = 190.0

// Classify 根据当前心率值和活动模式计算生理强度区间
// 纯函数，每个已验证采样到达时重新计算，无任何记忆
func Classify(value float64, mode models.SampleMode, estimatedMaxHR float64) models.Zone {
	if mode == models.ModeExercise {
		return exerciseZone(value, estimatedMaxHR)
	}
	return restingZone(value)
}

// restingZone 静息模式分区
func restingZone(value float64) models.Zone {
	switch {
	case value < 50:
		return models.ZoneLow
	case value < 60:
		return models.ZoneResting
	case value < 100:
		return models.ZoneNormal
	case value < 120:
		return models.ZoneElevated
	default:
		return models.ZoneHigh
	}
}

// exerciseZone 运动模式分区（按估计最大心率的百分比）
func exerciseZone(value, estimatedMaxHR float64) models.Zone {
	if estimatedMaxHR <= 0 {
		estimatedMaxHR = DefaultEstimatedMaxHR
	}
	pct := value / estimatedMaxHR * 100
	switch {
	case pct < 50:
		return models.ZoneResting
	case pct < 60:
		return models.ZoneWarmup
	case pct < 70:
		return models.ZoneFatBurn
	case pct < 80:
		return models.ZoneCardio
	case pct < 90:
		return models.ZonePeak
	default:
		return models.ZoneMaximum
	}
}
