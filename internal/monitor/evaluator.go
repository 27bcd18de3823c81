package monitor

import (
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/stats"
)

// MinEvaluationSamples 周期性风险评估所需的最少窗口采样数
const MinEvaluationSamples = 60

// ForceCriticalScore 强制进入 Critical 状态的风险得分阈值
const ForceCriticalScore = 0.7

// WindowFeatures 特征窗口的聚合统计量
type WindowFeatures struct {
	Mean      float64
	StdDev    float64
	PNN50Like float64
	RMSSD     float64
}

// ComputeWindowFeatures 计算窗口统计特征
func ComputeWindowFeatures(values []float64) WindowFeatures {
	return WindowFeatures{
		Mean:      stats.Mean(values),
		StdDev:    stats.StdDev(values),
		PNN50Like: stats.PNN50Like(values, stats.DefaultPNN50Threshold),
		RMSSD:     stats.RMSSD(values),
	}
}

// RRIntervals 将心率序列换算为 RR 间期等效值（毫秒）
// 采样已通过验证（≥20 bpm），不会除零
func RRIntervals(heartRates []float64) []float64 {
	intervals := make([]float64, len(heartRates))
	for i, hr := range heartRates {
		intervals[i] = 60000 / hr
	}
	return intervals
}

// EvaluateWindowRisk 周期性粗粒度风险评估
// 窗口数据不足 MinEvaluationSamples 时不评估（ok=false）
// score = 0.3·[mean>100 且非运动] + 0.3·[stdev>20] + 0.4·[pnn50<0.05]，钳制 [0,1]
func EvaluateWindowRisk(values []float64, mode models.SampleMode) (float64, bool) {
	if len(values) < MinEvaluationSamples {
		return 0, false
	}

	f := ComputeWindowFeatures(values)

	var score float64
	if f.Mean > 100 && mode != models.ModeExercise {
		score += 0.3
	}
	if f.StdDev > 20 {
		score += 0.3
	}
	if f.PNN50Like < 0.05 {
		score += 0.4
	}

	return stats.Clamp(score, 0, 1), true
}
