package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"wisefido-monitor/internal/models"
	"wisefido-monitor/internal/repository"
	"wisefido-monitor/internal/scoring"
)

func sampleRecords(t *testing.T) []repository.AssessmentRecord {
	t.Helper()

	at := time.Date(2026, 3, 14, 9, 30, 15, 0, time.UTC)
	return []repository.AssessmentRecord{
		{
			DeviceID: "device-001",
			Assessment: models.Assessment{
				AssessmentID: "a-1",
				Rhythm:       models.ModelOutput{Label: scoring.RhythmNormal, Confidence: 0.9},
				Risk:         models.ModelOutput{Label: scoring.RiskLow, Confidence: 0.8},
				Pattern:      models.ModelOutput{Label: scoring.PatternNormal, Confidence: 0.88},
				Timestamp:    at,
			},
			Snapshot: models.SourceSnapshot{
				MeanHR:          72.4,
				HRVMean:         45.2,
				RespiratoryRate: 16.0,
				ActivityEnergy:  250.0,
				SleepRatio:      0.82,
				SampleCount:     120,
			},
		},
		{
			DeviceID: "device-001",
			Assessment: models.Assessment{
				AssessmentID: "a-2",
				Rhythm:       models.ModelOutput{Label: scoring.RhythmIrregular, Confidence: 0.8},
				Risk:         models.ModelOutput{Label: scoring.RiskHigh, Confidence: 0.95},
				Pattern:      models.ModelOutput{Label: scoring.PatternTachycardia, Confidence: 0.92},
				Timestamp:    at.Add(time.Minute),
			},
			Snapshot: models.SourceSnapshot{
				MeanHR:          118.7,
				HRVMean:         12.3,
				RespiratoryRate: 24.5,
				ActivityEnergy:  80.0,
				SleepRatio:      0.4,
				SampleCount:     120,
			},
		},
	}
}

func TestGenerateCSV(t *testing.T) {
	t.Run("HeaderAndRows", func(t *testing.T) {
		data, err := GenerateCSV(sampleRecords(t))
		require.NoError(t, err)

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, AssessmentExportHeader, rows[0])
		assert.Equal(t, []string{
			"2026-03-14", "09:30:15", "72.4", "45.2", "16.0", "250.0", "0.82",
			scoring.RiskLow, scoring.RhythmNormal, scoring.PatternNormal,
		}, rows[1])
		assert.Equal(t, "118.7", rows[2][2])
		assert.Equal(t, scoring.RiskHigh, rows[2][7])
	})

	t.Run("EmptyRecords", func(t *testing.T) {
		data, err := GenerateCSV(nil)
		require.NoError(t, err)

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, AssessmentExportHeader, rows[0])
	})
}

func TestGenerateExcel(t *testing.T) {
	data, err := GenerateExcel(sampleRecords(t))
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Assessments")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, AssessmentExportHeader, rows[0])
	assert.Equal(t, "2026-03-14", rows[1][0])
	assert.Equal(t, "09:30:15", rows[1][1])
	assert.Equal(t, scoring.RhythmIrregular, rows[2][8])
}
