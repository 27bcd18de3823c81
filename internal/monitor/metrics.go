package monitor

import (
	"sync"
	"time"
)

// Metrics 会话监控指标
type Metrics struct {
	mu sync.RWMutex

	// 采样统计
	SamplesAccepted  int64 // 通过验证并进入缓冲区的采样数
	SamplesRejected  int64 // 超出生理范围被丢弃的采样数
	SamplesDiscarded int64 // 通道已满被丢弃的采样数

	// 评估统计
	EvaluationsRun     int64 // 完成的周期性评估次数
	EvaluationsSkipped int64 // 因窗口数据不足跳过的次数

	// 通知统计
	NotificationsSent       int64 // 实际下发的通知数
	NotificationsSuppressed int64 // 被冷却压制的状态迁移数

	// 持久化统计
	PersistFailures int64 // 持久化失败次数（非致命）

	LastSampleAt     time.Time
	LastEvaluationAt time.Time
	StartedAt        time.Time
}

// GetSnapshot 获取指标快照（线程安全）
func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		SamplesAccepted:         m.SamplesAccepted,
		SamplesRejected:         m.SamplesRejected,
		SamplesDiscarded:        m.SamplesDiscarded,
		EvaluationsRun:          m.EvaluationsRun,
		EvaluationsSkipped:      m.EvaluationsSkipped,
		NotificationsSent:       m.NotificationsSent,
		NotificationsSuppressed: m.NotificationsSuppressed,
		PersistFailures:         m.PersistFailures,
		LastSampleAt:            m.LastSampleAt,
		LastEvaluationAt:        m.LastEvaluationAt,
		StartedAt:               m.StartedAt,
	}
}

func (m *Metrics) markAccepted(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SamplesAccepted++
	m.LastSampleAt = at
}

func (m *Metrics) markRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SamplesRejected++
}

func (m *Metrics) markDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SamplesDiscarded++
}

func (m *Metrics) markEvaluation(at time.Time, skipped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if skipped {
		m.EvaluationsSkipped++
		return
	}
	m.EvaluationsRun++
	m.LastEvaluationAt = at
}

func (m *Metrics) markNotification(sent bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sent {
		m.NotificationsSent++
	} else {
		m.NotificationsSuppressed++
	}
}

func (m *Metrics) markPersistFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistFailures++
}

func (m *Metrics) markStarted(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartedAt = at
}
