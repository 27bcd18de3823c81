package scoring

import (
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/stats"
)

// 模式评分标签
const (
	PatternInsufficient = "Insufficient Data"
	PatternBradycardia  = "Low(Bradycardia)"
	PatternTachycardia  = "High(Tachycardia)"
	PatternIrregular    = "Irregular"
	PatternNormal       = "Normal"
	PatternVariable     = "Variable"
)

// 模式评分器所需的最少采样数
const (
	patternMinSamples       = 5
	patternIrregularSamples = 20
)

// ScorePattern 模式评分器
// 将缓冲的心率序列换算为 RR 间期等效值（60000/hr，毫秒），
// 在其上计算均值、标准差和 RMSSD 后按固定顺序匹配规则。
// 注意：这是由相邻心率差推出的代理指标，不是真实心电 RR 间期。
func ScorePattern(heartRates []float64) models.ModelOutput {
	if len(heartRates) < patternMinSamples {
		return models.ModelOutput{Label: PatternInsufficient, Confidence: 0}
	}

	intervals := make([]float64, len(heartRates))
	for i, hr := range heartRates {
		intervals[i] = 60000 / clampHR(hr)
	}

	meanRR := stats.Mean(intervals)
	stdRR := stats.StdDev(intervals)
	rmssd := stats.RMSSD(intervals)
	derivedHR := 60000 / meanRR

	switch {
	case derivedHR < 45:
		return models.ModelOutput{Label: PatternBradycardia, Confidence: 0.90}
	case derivedHR > 110:
		return models.ModelOutput{Label: PatternTachycardia, Confidence: 0.92}
	case len(heartRates) >= patternIrregularSamples && (stdRR > 200 || rmssd > 150):
		return models.ModelOutput{Label: PatternIrregular, Confidence: 0.95}
	case derivedHR >= 60 && derivedHR <= 100 && stdRR <= 100:
		return models.ModelOutput{Label: PatternNormal, Confidence: 0.88}
	default:
		return models.ModelOutput{Label: PatternVariable, Confidence: 0.75}
	}
}
