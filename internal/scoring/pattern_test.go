package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeated(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestScorePattern_InsufficientData(t *testing.T) {
	out := ScorePattern([]float64{72, 74, 71, 73})

	assert.Equal(t, PatternInsufficient, out.Label)
	assert.Equal(t, 0.0, out.Confidence)
}

func TestScorePattern_Normal(t *testing.T) {
	out := ScorePattern([]float64{70, 72, 71, 69, 70, 71, 72, 70, 69, 71})

	assert.Equal(t, PatternNormal, out.Label)
	assert.Equal(t, 0.88, out.Confidence)
}

func TestScorePattern_Bradycardia(t *testing.T) {
	out := ScorePattern(repeated(40, 6))

	assert.Equal(t, PatternBradycardia, out.Label)
	assert.Equal(t, 0.90, out.Confidence)
}

func TestScorePattern_Tachycardia(t *testing.T) {
	out := ScorePattern(repeated(120, 6))

	assert.Equal(t, PatternTachycardia, out.Label)
	assert.Equal(t, 0.92, out.Confidence)
}

func TestScorePattern_IrregularRequiresTwentySamples(t *testing.T) {
	// 55/95 交替：RR 间期在 ~1091ms 与 ~632ms 间跳动，标准差远超 200ms
	irregular := make([]float64, 0, 20)
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			irregular = append(irregular, 55)
		} else {
			irregular = append(irregular, 95)
		}
	}

	out := ScorePattern(irregular)
	assert.Equal(t, PatternIrregular, out.Label)
	assert.Equal(t, 0.95, out.Confidence)

	// 同样的序列不足 20 条时不判 Irregular
	out = ScorePattern(irregular[:10])
	assert.NotEqual(t, PatternIrregular, out.Label)
}

func TestScorePattern_Variable(t *testing.T) {
	// 派生心率 52：不在 [60,100]，也未命中其他规则
	out := ScorePattern(repeated(52, 6))

	assert.Equal(t, PatternVariable, out.Label)
	assert.Equal(t, 0.75, out.Confidence)
}

func TestScorePattern_ExtremeValuesClamped(t *testing.T) {
	// 越界心率先钳制到 [30,250]，不会除零或产生越界置信度
	out := ScorePattern([]float64{-10, 0, 5000, 300, 250, 40})

	assert.GreaterOrEqual(t, out.Confidence, 0.0)
	assert.LessOrEqual(t, out.Confidence, 1.0)
}
