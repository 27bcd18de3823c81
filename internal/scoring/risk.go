package scoring

import (
	"math"

	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/stats"
)

// 风险评分标签
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// RiskInput 风险评分器输入
type RiskInput struct {
	AvgHR      float64 // 平均心率
	HRVMean    float64 // 平均 HRV（RMSSD 或 SDNN 均值）
	RespRate   float64 // 呼吸率（次/分钟）
	Activity   float64 // 活动能量（kcal）
	SleepRatio float64 // 睡眠质量比例 [0,1]
}

// ScoreRisk 风险评分器
// 由压力（avgHR 的 sigmoid）与恢复（睡眠×HRV）两个派生量驱动的加权规则
func ScoreRisk(in RiskInput) models.ModelOutput {
	avgHR := clampHR(in.AvgHR)
	hrv := clampHRV(in.HRVMean)
	resp := clampResp(in.RespRate)
	activity := clampActivity(in.Activity)
	sleep := clampSleep(in.SleepRatio)

	stress := 1 / (1 + math.Exp(-0.1*(avgHR-75)))
	recovery := sleep * hrv / 50

	var score float64
	if recovery < 0.5 {
		score += 0.4
	} else if recovery < 0.8 {
		score += 0.2
	}
	if activity < 100 {
		score += 0.2
	}
	if stress > 0.7 {
		score += 0.1
	}
	if sleep < 0.5 {
		score += 0.1
	}
	if resp > 20 || resp < 12 {
		score += 0.1
	}
	if avgHR > 90 && activity < 200 {
		score += 0.1
	}
	score = stats.Clamp(score, 0, 1)

	switch {
	case score >= 0.6:
		confidence := score + 0.2
		if confidence > 0.95 {
			confidence = 0.95
		}
		return models.ModelOutput{Label: RiskHigh, Confidence: clampConfidence(confidence)}
	case score >= 0.35:
		confidence := 0.75 + (score-0.35)*0.5
		return models.ModelOutput{Label: RiskMedium, Confidence: clampConfidence(confidence)}
	default:
		confidence := 0.85 - score
		if confidence < 0.7 {
			confidence = 0.7
		}
		return models.ModelOutput{Label: RiskLow, Confidence: clampConfidence(confidence)}
	}
}
