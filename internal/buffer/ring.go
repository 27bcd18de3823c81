package buffer

import (
	"wisefido-monitor/internal/models"
)

// 默认容量（短窗口用于实时显示/区间/报警检查，长窗口用于统计特征）
const (
	DefaultRingCapacity   = 200
	DefaultWindowCapacity = 300
)

// SampleRing 固定容量的采样环形缓冲区（FIFO）
// 仅由创建它的监测会话持有和修改，本身不做并发保护
type SampleRing struct {
	data  []models.Sample
	head  int // 最旧元素下标
	count int
}

// NewSampleRing 创建采样环形缓冲区
func NewSampleRing(capacity int) *SampleRing {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &SampleRing{
		data: make([]models.Sample, capacity),
	}
}

// Push 追加采样；已满时先淘汰最旧的一条
func (r *SampleRing) Push(s models.Sample) {
	if r.count < len(r.data) {
		r.data[(r.head+r.count)%len(r.data)] = s
		r.count++
		return
	}
	// 已满：覆盖最旧位置并前移 head
	r.data[r.head] = s
	r.head = (r.head + 1) % len(r.data)
}

// Len 当前长度
func (r *SampleRing) Len() int {
	return r.count
}

// Cap 容量
func (r *SampleRing) Cap() int {
	return len(r.data)
}

// Recent 返回最近 n 条采样（从旧到新），不修改状态
// n 大于当前长度时返回全部
func (r *SampleRing) Recent(n int) []models.Sample {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]models.Sample, n)
	start := r.count - n
	for i := 0; i < n; i++ {
		out[i] = r.data[(r.head+start+i)%len(r.data)]
	}
	return out
}

// Latest 返回最新一条采样
func (r *SampleRing) Latest() (models.Sample, bool) {
	if r.count == 0 {
		return models.Sample{}, false
	}
	return r.data[(r.head+r.count-1)%len(r.data)], true
}

// Clear 清空缓冲区并释放内存
func (r *SampleRing) Clear() {
	r.data = make([]models.Sample, len(r.data))
	r.head = 0
	r.count = 0
}

// FeatureWindow 固定容量的原始值窗口（FIFO），用于较长周期的统计特征
// 与 SampleRing 独立计容量、独立淘汰
type FeatureWindow struct {
	data  []float64
	head  int
	count int
}

// NewFeatureWindow 创建特征窗口
func NewFeatureWindow(capacity int) *FeatureWindow {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &FeatureWindow{
		data: make([]float64, capacity),
	}
}

// Push 追加数值；已满时先淘汰最旧值
func (w *FeatureWindow) Push(v float64) {
	if w.count < len(w.data) {
		w.data[(w.head+w.count)%len(w.data)] = v
		w.count++
		return
	}
	w.data[w.head] = v
	w.head = (w.head + 1) % len(w.data)
}

// Len 当前长度
func (w *FeatureWindow) Len() int {
	return w.count
}

// Cap 容量
func (w *FeatureWindow) Cap() int {
	return len(w.data)
}

// Recent 返回最近 n 个值（从旧到新），不修改状态
func (w *FeatureWindow) Recent(n int) []float64 {
	if n > w.count {
		n = w.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	start := w.count - n
	for i := 0; i < n; i++ {
		out[i] = w.data[(w.head+start+i)%len(w.data)]
	}
	return out
}

// Values 返回窗口内全部值（从旧到新）
func (w *FeatureWindow) Values() []float64 {
	return w.Recent(w.count)
}

// Clear 清空窗口并释放内存
func (w *FeatureWindow) Clear() {
	w.data = make([]float64, len(w.data))
	w.head = 0
	w.count = 0
}
