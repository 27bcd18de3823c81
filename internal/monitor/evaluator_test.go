package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"wisefido-monitor/internal/models"
)

func TestEvaluateWindowRisk_RequiresSixtySamples(t *testing.T) {
	values := make([]float64, 59)
	for i := range values {
		values[i] = 110
	}

	_, ok := EvaluateWindowRisk(values, models.ModeResting)
	assert.False(t, ok)
}

func TestEvaluateWindowRisk_HighMeanResting(t *testing.T) {
	// 恒定 112 bpm：mean>100 (+0.3)，stdev 0，pnn50 0 <0.05 (+0.4)
	values := make([]float64, 60)
	for i := range values {
		values[i] = 112
	}

	score, ok := EvaluateWindowRisk(values, models.ModeResting)
	assert.True(t, ok)
	assert.InDelta(t, 0.7, score, 1e-9)
}

func TestEvaluateWindowRisk_ExerciseModeExcludesMeanRule(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 112
	}

	score, ok := EvaluateWindowRisk(values, models.ModeExercise)
	assert.True(t, ok)
	// 仅剩 pnn50 规则命中
	assert.InDelta(t, 0.4, score, 1e-9)
}

func TestEvaluateWindowRisk_FullScore(t *testing.T) {
	// 缓慢爬升：高均值 + 高整体离散度 + 相邻差值极小
	var values []float64
	for v := 80.0; v <= 160; v += 0.5 {
		values = append(values, v)
	}

	score, ok := EvaluateWindowRisk(values, models.ModeResting)
	assert.True(t, ok)
	assert.InDelta(t, 1.0, score, 1e-9)
}

func TestRRIntervals(t *testing.T) {
	intervals := RRIntervals([]float64{60, 120})
	assert.InDelta(t, 1000, intervals[0], 1e-9)
	assert.InDelta(t, 500, intervals[1], 1e-9)
}

func TestComputeWindowFeatures(t *testing.T) {
	f := ComputeWindowFeatures([]float64{70, 75, 65, 70})

	assert.InDelta(t, 70, f.Mean, 1e-9)
	assert.Greater(t, f.StdDev, 0.0)
	assert.Greater(t, f.RMSSD, 0.0)
	// 所有相邻差值都超过 50/60 → pnn50 = 1
	assert.InDelta(t, 1.0, f.PNN50Like, 1e-9)
}
