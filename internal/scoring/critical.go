package scoring

import (
	"wisefido-monitor/internal/models"
)

// CriticalInput 关键预检输入
type CriticalInput struct {
	HeartRate       float64
	HRV             float64
	RespiratoryRate float64
	Activity        float64
}

// CheckCritical 关键预检
// 在评分集合之前/并行独立评估的快速安全门；命中的信号始终直接上报，
// 不等待评分结果，也不受通知冷却逻辑压制。
func CheckCritical(in CriticalInput) []models.CriticalSignal {
	var signals []models.CriticalSignal

	if in.HeartRate > 150 && in.Activity < 100 {
		signals = append(signals, models.CriticalSignal{
			Reason:   "high_hr_at_rest",
			Advisory: "Heart rate above 150 bpm without significant activity. Seek medical attention if this persists.",
		})
	}
	if in.HeartRate < 40 {
		signals = append(signals, models.CriticalSignal{
			Reason:   "severe_bradycardia",
			Advisory: "Heart rate below 40 bpm. Contact a healthcare provider immediately.",
		})
	}
	if in.RespiratoryRate < 8 || in.RespiratoryRate > 25 {
		signals = append(signals, models.CriticalSignal{
			Reason:   "abnormal_respiratory_rate",
			Advisory: "Respiratory rate outside the normal 8-25 range. Monitor closely and seek care if symptomatic.",
		})
	}
	if in.HRV < 10 && in.HeartRate > 80 {
		signals = append(signals, models.CriticalSignal{
			Reason:   "low_hrv_elevated_hr",
			Advisory: "Very low heart rate variability with elevated heart rate. Consider resting and re-measuring.",
		})
	}

	return signals
}
