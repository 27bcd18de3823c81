package scoring

import (
	"time"

	"github.com/google/uuid"
	"wisefido-monitor/internal/models"
)

// 综合状态
const (
	OverallHealthy        = "Healthy"
	OverallMonitor        = "Monitor"
	OverallNeedsAttention = "Needs Attention"
)

// OverallStatus 评估聚合器
// 四个子输出的纯函数：相同输入永远得到相同结果，与调用顺序和时钟无关
func OverallStatus(rhythm, risk, pattern models.ModelOutput) string {
	if rhythm.Label == RhythmIrregular || risk.Label == RiskHigh || pattern.Label == PatternIrregular {
		return OverallNeedsAttention
	}
	if risk.Label == RiskMedium || pattern.Label == PatternTachycardia || pattern.Label == PatternBradycardia {
		return OverallMonitor
	}
	return OverallHealthy
}

// BuildAssessment 组装一次评估结果
// Assessment 产生后不可变，下个周期用新的实例取代
func BuildAssessment(rhythm, risk, pattern models.ModelOutput, fitness models.FitnessOutput, critical []models.CriticalSignal, at time.Time) models.Assessment {
	return models.Assessment{
		AssessmentID:  uuid.New().String(),
		Rhythm:        rhythm,
		Risk:          risk,
		Pattern:       pattern,
		Fitness:       fitness,
		Critical:      critical,
		OverallStatus: OverallStatus(rhythm, risk, pattern),
		Timestamp:     at,
	}
}
