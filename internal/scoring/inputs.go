package scoring

import (
	"wisefido-monitor/internal/stats"
)

// 生理输入钳制范围：所有评分器在使用输入前先做钳制
const (
	MinHeartRate  = 30.0
	MaxHeartRate  = 250.0
	MinHRV        = 0.0
	MaxHRV        = 200.0
	MinRespRate   = 8.0
	MaxRespRate   = 30.0
	MinActivity   = 0.0
	MaxActivity   = 1000.0
	MinSleepRatio = 0.0
	MaxSleepRatio = 1.0
)

func clampHR(v float64) float64 {
	return stats.Clamp(v, MinHeartRate, MaxHeartRate)
}

func clampHRV(v float64) float64 {
	return stats.Clamp(v, MinHRV, MaxHRV)
}

func clampResp(v float64) float64 {
	return stats.Clamp(v, MinRespRate, MaxRespRate)
}

func clampActivity(v float64) float64 {
	return stats.Clamp(v, MinActivity, MaxActivity)
}

func clampSleep(v float64) float64 {
	return stats.Clamp(v, MinSleepRatio, MaxSleepRatio)
}

// clampConfidence 置信度无论中间计算结果如何，最终都落在 [0,1]
func clampConfidence(v float64) float64 {
	return stats.Clamp(v, 0, 1)
}
