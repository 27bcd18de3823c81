package scoring

import (
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/stats"
)

// 体能评分等级
const (
	FitnessExcellent    = "Excellent"
	FitnessGood         = "Good"
	FitnessFair         = "Fair"
	FitnessBelowAverage = "Below Average"
	FitnessNeedsWork    = "Needs Improvement"
)

// 恢复效率状态
const (
	RecoveryExcellent = "Excellent"
	RecoveryGood      = "Good"
	RecoveryModerate  = "Moderate"
	RecoveryPoor      = "Poor"
)

// 训练准备度状态
const (
	ReadinessReady     = "Ready"
	ReadinessModerate  = "Moderate"
	ReadinessLightOnly = "Light Only"
	ReadinessRest      = "Rest"
)

// FitnessInput 体能/恢复评分器输入
type FitnessInput struct {
	Age               float64 // 年龄（岁）
	RestingHR         float64 // 静息心率
	HRReserve         float64 // 心率储备（最大心率 − 静息心率）
	HRRecovery1Min    float64 // 运动后 1 分钟心率下降幅度
	HRRecovery2Min    float64 // 运动后 2 分钟心率下降幅度
	TimeToTargetSec   float64 // 恢复到目标心率所需秒数
	RMSSD             float64
	SDNN              float64
	BaselineRestingHR float64 // 个人静息心率基线
	SleepRatio        float64
}

// ScoreFitness 体能/恢复评分器
// 以 50 为基准的加权加分制，1 分钟心率恢复权重最大；
// 在体能评分之上派生 VO2max、心血管年龄、恢复效率和训练准备度。
func ScoreFitness(in FitnessInput) models.FitnessOutput {
	age := stats.Clamp(in.Age, 18, 100)
	restingHR := clampHR(in.RestingHR)
	rmssd := clampHRV(in.RMSSD)
	sdnn := clampHRV(in.SDNN)
	sleep := clampSleep(in.SleepRatio)
	baselineRHR := clampHR(in.BaselineRestingHR)

	score := 50.0

	// 1 分钟心率恢复（权重最大）
	switch {
	case in.HRRecovery1Min > 30:
		score += 20
	case in.HRRecovery1Min > 20:
		score += 12
	case in.HRRecovery1Min > 12:
		score += 5
	case in.HRRecovery1Min < 8:
		score -= 10
	}

	// 静息心率
	switch {
	case restingHR < 55:
		score += 12
	case restingHR < 65:
		score += 6
	case restingHR > 90:
		score -= 15
	case restingHR > 80:
		score -= 8
	}

	// RMSSD
	switch {
	case rmssd > 60:
		score += 10
	case rmssd > 40:
		score += 5
	case rmssd < 20:
		score -= 8
	}

	// SDNN
	switch {
	case sdnn > 50:
		score += 3
	case sdnn < 25:
		score -= 3
	}

	// 年龄
	switch {
	case age < 30:
		score += 5
	case age >= 60:
		score -= 5
	}

	score = stats.Clamp(score, 10, 95)

	out := models.FitnessOutput{
		Score:    score,
		Category: fitnessCategory(score),
	}

	// VO2max 估计（线性组合，钳制 [15,75]）
	vo2 := 25 + 0.3*score + 0.05*in.HRReserve - 0.1*(age-30) + 10*(190-restingHR)/190
	out.VO2MaxEstimate = stats.Clamp(vo2, 15, 75)

	// 心血管年龄估计（按体能/恢复/HRV 档位调整生理年龄，钳制 [18,90]）
	cvAge := age + (50-score)*0.3
	switch {
	case in.HRRecovery1Min > 25:
		cvAge -= 3
	case in.HRRecovery1Min < 12:
		cvAge += 3
	}
	switch {
	case rmssd > 50:
		cvAge -= 2
	case rmssd < 20:
		cvAge += 2
	}
	out.CardiovascularAge = stats.Clamp(cvAge, 18, 90)

	// 恢复效率（1 分钟/2 分钟恢复 + 回落到目标心率耗时）
	eff := 0.5*stats.Clamp(in.HRRecovery1Min/35, 0, 1)*100 +
		0.3*stats.Clamp(in.HRRecovery2Min/50, 0, 1)*100 +
		0.2*stats.Clamp(100-(in.TimeToTargetSec-60)/3, 0, 100)
	out.RecoveryEfficiency = stats.Clamp(eff, 0, 100)
	out.RecoveryStatus = recoveryStatus(out.RecoveryEfficiency)

	// 训练准备度（RMSSD + 静息心率相对个人基线的偏差 + 睡眠）
	rhrDeviation := restingHR - baselineRHR
	if rhrDeviation < 0 {
		rhrDeviation = 0
	}
	readiness := 0.4*stats.Clamp(rmssd/60, 0, 1)*100 +
		0.35*stats.Clamp(100-4*rhrDeviation, 0, 100) +
		0.25*sleep*100
	out.TrainingReadiness = stats.Clamp(readiness, 0, 100)
	out.ReadinessStatus = readinessStatus(out.TrainingReadiness)

	return out
}

// fitnessCategory 评分等级映射
func fitnessCategory(score float64) string {
	switch {
	case score > 80:
		return FitnessExcellent
	case score > 65:
		return FitnessGood
	case score > 45:
		return FitnessFair
	case score > 30:
		return FitnessBelowAverage
	default:
		return FitnessNeedsWork
	}
}

// recoveryStatus 恢复效率状态映射
func recoveryStatus(eff float64) string {
	switch {
	case eff > 80:
		return RecoveryExcellent
	case eff > 60:
		return RecoveryGood
	case eff > 40:
		return RecoveryModerate
	default:
		return RecoveryPoor
	}
}

// readinessStatus 训练准备度状态映射
func readinessStatus(readiness float64) string {
	switch {
	case readiness > 75:
		return ReadinessReady
	case readiness > 50:
		return ReadinessModerate
	case readiness > 30:
		return ReadinessLightOnly
	default:
		return ReadinessRest
	}
}
