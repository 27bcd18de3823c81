package alert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/notify"
	"wisefido-monitor/internal/stats"
)

// Thresholds 报警阈值（可通过配置覆盖）
type Thresholds struct {
	ExerciseWarningHR  float64 `yaml:"exercise_warning_hr"`  // 运动模式心率告警阈值
	RestingCriticalHR  float64 `yaml:"resting_critical_hr"`  // 静息模式危急阈值
	RestingLowHR       float64 `yaml:"resting_low_hr"`       // 静息模式低心率告警阈值
	IrregularityStdev  float64 `yaml:"irregularity_stdev"`   // 不规则性叠加判断的标准差阈值
	IrregularityWindow int     `yaml:"irregularity_window"`  // 不规则性判断所需最少采样数
	CooldownSeconds    int     `yaml:"cooldown_seconds"`     // 两次通知之间的最小间隔
}

// DefaultThresholds 默认阈值
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExerciseWarningHR:  180,
		RestingCriticalHR:  100,
		RestingLowHR:       50,
		IrregularityStdev:  15,
		IrregularityWindow: 10,
		CooldownSeconds:    300,
	}
}

// Engine 报警状态机
// Moore 机：状态只取决于最新采样加窗口不规则性检查，任意状态间可以互相迁移。
// 通知仅在状态迁移且距上次任何一次下发已超过冷却时间时发送；
// 错过冷却窗口时内部状态仍然更新，只是不发通知。
type Engine struct {
	thresholds Thresholds
	dispatcher notify.Dispatcher
	logger     *zap.Logger

	status         models.AlertStatus
	lastDispatchAt time.Time // 零值表示从未下发过

	now func() time.Time
}

// NewEngine 创建报警状态机
func NewEngine(thresholds Thresholds, dispatcher notify.Dispatcher, logger *zap.Logger) *Engine {
	if dispatcher == nil {
		dispatcher = notify.NopDispatcher{}
	}
	return &Engine{
		thresholds: thresholds,
		dispatcher: dispatcher,
		logger:     logger,
		status:     models.AlertNormal,
		now:        time.Now,
	}
}

// Status 当前状态
func (e *Engine) Status() models.AlertStatus {
	return e.status
}

// Evaluate 按最新采样评估状态机
// windowValues 为特征窗口快照（从旧到新），用于不规则性叠加判断
// 返回评估后的状态以及本次是否下发了通知
func (e *Engine) Evaluate(sample models.Sample, windowValues []float64) (models.AlertStatus, bool) {
	target := e.targetStatus(sample)

	// 不规则性叠加：仅静息模式、窗口内采样足够、且当前和目标状态均为 Normal
	if sample.Mode == models.ModeResting &&
		target == models.AlertNormal &&
		e.status == models.AlertNormal &&
		len(windowValues) >= e.thresholds.IrregularityWindow {
		last := windowValues
		if len(last) > e.thresholds.IrregularityWindow {
			last = last[len(last)-e.thresholds.IrregularityWindow:]
		}
		if stats.StdDev(last) > e.thresholds.IrregularityStdev {
			target = models.AlertMonitoring
		}
	}

	return e.transition(target, fmt.Sprintf("Heart rate %.0f bpm (%s)", sample.Value, sample.Mode))
}

// ForceCritical 周期性风险评估得分过高时强制进入 Critical 并尝试下发（仍受冷却限制）
func (e *Engine) ForceCritical(reason string) (models.AlertStatus, bool) {
	return e.transition(models.AlertCritical, reason)
}

// targetStatus 按单个采样计算目标状态
func (e *Engine) targetStatus(sample models.Sample) models.AlertStatus {
	if sample.Mode == models.ModeExercise {
		if sample.Value > e.thresholds.ExerciseWarningHR {
			return models.AlertWarning
		}
		return models.AlertNormal
	}

	switch {
	case sample.Value > e.thresholds.RestingCriticalHR:
		return models.AlertCritical
	case sample.Value > 0 && sample.Value < e.thresholds.RestingLowHR:
		return models.AlertWarning
	default:
		return models.AlertNormal
	}
}

// transition 执行状态迁移，按冷却规则决定是否下发通知
func (e *Engine) transition(target models.AlertStatus, detail string) (models.AlertStatus, bool) {
	if target == e.status {
		return e.status, false
	}

	previous := e.status
	e.status = target

	e.logger.Debug("Alert state transition",
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
	)

	// 冷却检查：距上次任何一次下发不足冷却时间则只更新状态，不发通知
	now := e.now()
	cooldown := time.Duration(e.thresholds.CooldownSeconds) * time.Second
	if !e.lastDispatchAt.IsZero() && now.Sub(e.lastDispatchAt) < cooldown {
		e.logger.Debug("Notification suppressed by cooldown",
			zap.String("status", string(target)),
			zap.Duration("since_last", now.Sub(e.lastDispatchAt)),
		)
		return e.status, false
	}

	e.lastDispatchAt = now
	e.dispatch(target, detail)
	return e.status, true
}

// dispatch 异步下发通知（失败只记录日志，不回传、不阻塞）
func (e *Engine) dispatch(status models.AlertStatus, detail string) {
	title, urgency := notificationFor(status)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := e.dispatcher.Dispatch(ctx, title, detail, urgency); err != nil {
			e.logger.Error("Failed to dispatch notification",
				zap.String("status", string(status)),
				zap.Error(err),
			)
		}
	}()
}

// notificationFor 状态对应的通知标题与紧急程度
func notificationFor(status models.AlertStatus) (string, notify.Urgency) {
	switch status {
	case models.AlertCritical:
		return "Critical heart rate alert", notify.UrgencyCritical
	case models.AlertWarning:
		return "Heart rate warning", notify.UrgencyWarning
	case models.AlertMonitoring:
		return "Heart rhythm monitoring", notify.UrgencyInfo
	default:
		return "Heart rate back to normal", notify.UrgencyInfo
	}
}
