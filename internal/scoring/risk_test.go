package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRisk_HighRiskScenario(t *testing.T) {
	// recovery = 0.4×37.5/50 = 0.3，stress = sigmoid(2) ≈ 0.88
	out := ScoreRisk(RiskInput{
		AvgHR:      95,
		HRVMean:    37.5,
		RespRate:   22,
		Activity:   50,
		SleepRatio: 0.4,
	})

	assert.Equal(t, RiskHigh, out.Label)
	// 全部七条规则中命中六条，score=1.0，置信度封顶 0.95
	assert.InDelta(t, 0.95, out.Confidence, 1e-9)
}

func TestScoreRisk_LowRiskScenario(t *testing.T) {
	// 恢复良好、活动充足、睡眠好、呼吸正常
	out := ScoreRisk(RiskInput{
		AvgHR:      62,
		HRVMean:    60,
		RespRate:   15,
		Activity:   450,
		SleepRatio: 0.85,
	})

	assert.Equal(t, RiskLow, out.Label)
	// recovery = 0.85×60/50 = 1.02 ≥ 0.8，无规则命中 → score 0，conf 0.85
	assert.InDelta(t, 0.85, out.Confidence, 1e-9)
}

func TestScoreRisk_MediumRiskScenario(t *testing.T) {
	// recovery = 0.8×40/50 = 0.64 → +0.2；activity<100 → +0.2 → score 0.4
	out := ScoreRisk(RiskInput{
		AvgHR:      70,
		HRVMean:    40,
		RespRate:   15,
		Activity:   80,
		SleepRatio: 0.8,
	})

	assert.Equal(t, RiskMedium, out.Label)
	assert.InDelta(t, 0.775, out.Confidence, 1e-9)
}

func TestScoreRisk_InputClamping(t *testing.T) {
	// 极端越界输入先钳制再评分，不会产生异常置信度
	out := ScoreRisk(RiskInput{
		AvgHR:      10000,
		HRVMean:    -50,
		RespRate:   0,
		Activity:   -1,
		SleepRatio: 3,
	})

	assert.NotEmpty(t, out.Label)
	assert.GreaterOrEqual(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)
}

func TestScoreRisk_ConfidenceAlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 1000; i++ {
		out := ScoreRisk(RiskInput{
			AvgHR:      rng.Float64()*2000 - 500,
			HRVMean:    rng.Float64()*1000 - 300,
			RespRate:   rng.Float64()*200 - 50,
			Activity:   rng.Float64()*5000 - 1000,
			SleepRatio: rng.Float64()*6 - 3,
		})
		assert.GreaterOrEqual(t, out.Confidence, 0.0)
		assert.LessOrEqual(t, out.Confidence, 1.0)
	}
}
