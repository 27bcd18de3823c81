package models

import (
	"time"
)

// ModelOutput 单个评分器的输出
// Confidence 在任何中间计算之后都会被钳制到 [0,1]
type ModelOutput struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// FitnessOutput 体能/恢复评分器的输出（在 ModelOutput 基础上附带派生指标）
type FitnessOutput struct {
	Score              float64 `json:"score"`               // 体能评分 [10,95]
	Category           string  `json:"category"`            // 评分等级
	VO2MaxEstimate     float64 `json:"vo2max_estimate"`     // VO2max 估计值 [15,75]
	CardiovascularAge  float64 `json:"cardiovascular_age"`  // 心血管年龄估计 [18,90]
	RecoveryEfficiency float64 `json:"recovery_efficiency"` // 恢复效率评分 [0,100]
	RecoveryStatus     string  `json:"recovery_status"`
	TrainingReadiness  float64 `json:"training_readiness"` // 训练准备度评分 [0,100]
	ReadinessStatus    string  `json:"readiness_status"`
}

// CriticalSignal 关键预检信号（始终直接上报，不受冷却限制）
type CriticalSignal struct {
	Reason   string `json:"reason"`
	Advisory string `json:"advisory"`
}

// Assessment 一次完整评估周期的结果
// 每个周期新建一份，产生后不可变；下个周期生成新的 Assessment 取代而非修改
type Assessment struct {
	AssessmentID  string           `json:"assessment_id"`
	Rhythm        ModelOutput      `json:"rhythm"`
	Risk          ModelOutput      `json:"risk"`
	Pattern       ModelOutput      `json:"pattern"`
	Fitness       FitnessOutput    `json:"fitness"`
	Critical      []CriticalSignal `json:"critical,omitempty"`
	OverallStatus string           `json:"overall_status"`
	Timestamp     time.Time        `json:"timestamp"`
}

// SourceSnapshot 评估时刻的输入数据快照（随 Assessment 持久化，用于回溯）
type SourceSnapshot struct {
	MeanHR          float64 `json:"mean_hr"`
	StdHR           float64 `json:"std_hr"`
	HRVMean         float64 `json:"hrv_mean"`
	RespiratoryRate float64 `json:"respiratory_rate"`
	ActivityEnergy  float64 `json:"activity_energy"`
	SleepRatio      float64 `json:"sleep_ratio"`
	SampleCount     int     `json:"sample_count"`
}

// CachedAssessment 离线缓存条目
// 超过 CachedAssessmentTTL 的条目视为不存在
type CachedAssessment struct {
	Assessment Assessment `json:"assessment"`
	CachedAt   time.Time  `json:"cached_at"`
}

// CachedAssessmentTTL 离线缓存过期时间
const CachedAssessmentTTL = 3600 * time.Second

// Expired 判断缓存条目是否已过期
func (c CachedAssessment) Expired(now time.Time) bool {
	return now.Sub(c.CachedAt) > CachedAssessmentTTL
}
