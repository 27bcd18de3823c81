package scoring

import (
	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/stats"
)

// 节律评分标签
const (
	RhythmNormal    = "Normal"
	RhythmIrregular = "Irregular"
)

// ScoreRhythm 节律评分器
// 输入为窗口内的平均心率、心率标准差和 pNN50 近似值，输出节律标签与置信度
func ScoreRhythm(meanHR, stdHR, pnn50 float64) models.ModelOutput {
	meanHR = clampHR(meanHR)
	stdHR = clampHRV(stdHR)
	pnn50 = stats.Clamp(pnn50, 0, 1)

	var irregularity float64
	if stdHR > 15 {
		irregularity += 0.4
	} else if stdHR > 10 {
		irregularity += 0.2
	}
	if pnn50 < 0.1 && meanHR > 85 {
		irregularity += 0.3
	}
	if meanHR > 100 || meanHR < 50 {
		irregularity += 0.2
	}
	if stdHR > 12 && pnn50 < 0.08 {
		irregularity += 0.1
	}

	if irregularity >= 0.5 {
		confidence := irregularity
		if confidence > 0.95 {
			confidence = 0.95
		}
		return models.ModelOutput{
			Label:      RhythmIrregular,
			Confidence: clampConfidence(confidence),
		}
	}

	confidence := 1 - irregularity
	if confidence < 0.7 {
		confidence = 0.7
	}
	return models.ModelOutput{
		Label:      RhythmNormal,
		Confidence: clampConfidence(confidence),
	}
}
