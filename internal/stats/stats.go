package stats

import (
	"math"
)

// DefaultPNN50Threshold pNN50 近似指标的阈值（bpm 等效，50/60）
// 注意：这是基于相邻心率差值的代理指标，不是真正的心电 RR 间期指标
const DefaultPNN50Threshold = 50.0 / 60.0

// Mean 算术平均值；空序列返回 0
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev 总体标准差；长度不足 2 时返回 0
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// SuccessiveDiffs 相邻值差值序列（values[i+1]-values[i]）
func SuccessiveDiffs(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	diffs := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		diffs = append(diffs, values[i]-values[i-1])
	}
	return diffs
}

// PNN50Like 相邻差值绝对值超过阈值的比例；长度不足 2 时返回 0
func PNN50Like(values []float64, threshold float64) float64 {
	diffs := SuccessiveDiffs(values)
	if len(diffs) == 0 {
		return 0
	}
	var exceed int
	for _, d := range diffs {
		if math.Abs(d) > threshold {
			exceed++
		}
	}
	return float64(exceed) / float64(len(diffs))
}

// RMSSD 相邻差值的均方根；长度不足 2 时返回 0
func RMSSD(values []float64) float64 {
	diffs := SuccessiveDiffs(values)
	if len(diffs) == 0 {
		return 0
	}
	var sum float64
	for _, d := range diffs {
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(diffs)))
}

// Clamp 将 v 钳制到 [lo,hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
