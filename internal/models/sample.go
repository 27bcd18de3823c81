package models

import (
	"time"
)

// SampleMode 采样时的活动模式
type SampleMode string

const (
	// ModeResting 静息模式
	ModeResting SampleMode = "resting"
	// ModeExercise 运动模式
	ModeExercise SampleMode = "exercise"
)

// Sample 单次心率采样（已验证后才会进入缓冲区）
type Sample struct {
	Value     float64    `json:"value"`     // 心率值（bpm）
	Timestamp time.Time  `json:"timestamp"` // 采样时间（近似实时顺序到达，不做重排）
	Mode      SampleMode `json:"mode"`      // 活动模式
}

// 采样值物理有效范围（超出范围的采样直接丢弃，不进入任何缓冲区）
const (
	MinValidHeartRate = 20.0
	MaxValidHeartRate = 300.0
)

// Valid 判断采样值是否在生理可能范围内
func (s Sample) Valid() bool {
	return s.Value >= MinValidHeartRate && s.Value <= MaxValidHeartRate
}

// Zone 生理强度区间
type Zone string

// 静息模式区间
const (
	ZoneLow      Zone = "Low"
	ZoneResting  Zone = "Resting"
	ZoneNormal   Zone = "Normal"
	ZoneElevated Zone = "Elevated"
	ZoneHigh     Zone = "High"
)

// 运动模式区间
const (
	ZoneWarmup  Zone = "Warmup"
	ZoneFatBurn Zone = "FatBurn"
	ZoneCardio  Zone = "Cardio"
	ZonePeak    Zone = "Peak"
	ZoneMaximum Zone = "Maximum"
)

// AlertStatus 报警状态机状态
type AlertStatus string

const (
	AlertNormal     AlertStatus = "Normal"
	AlertMonitoring AlertStatus = "Monitoring"
	AlertWarning    AlertStatus = "Warning"
	AlertCritical   AlertStatus = "Critical"
)
