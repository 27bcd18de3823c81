package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"wisefido-monitor/internal/models"
)

// AssessmentsRepository 评估结果仓库（对应 assessments 表）
type AssessmentsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssessmentsRepository 创建评估结果仓库
func NewAssessmentsRepository(db *sql.DB, logger *zap.Logger) *AssessmentsRepository {
	return &AssessmentsRepository{
		db:     db,
		logger: logger,
	}
}

// AssessmentRecord 持久化后的评估记录
type AssessmentRecord struct {
	Assessment models.Assessment
	DeviceID   string
	Snapshot   models.SourceSnapshot
	CreatedAt  time.Time
}

// SaveAssessment 写入一次评估结果及其输入快照
func (r *AssessmentsRepository) SaveAssessment(ctx context.Context, deviceID string, a models.Assessment, snap models.SourceSnapshot) error {
	if a.AssessmentID == "" {
		return fmt.Errorf("assessment_id is required")
	}
	if deviceID == "" {
		return fmt.Errorf("device_id is required")
	}

	fitnessJSON, err := json.Marshal(a.Fitness)
	if err != nil {
		return fmt.Errorf("failed to marshal fitness output: %w", err)
	}
	criticalJSON, err := json.Marshal(a.Critical)
	if err != nil {
		return fmt.Errorf("failed to marshal critical signals: %w", err)
	}
	snapshotJSON, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal source snapshot: %w", err)
	}

	query := `
		INSERT INTO assessments (
			assessment_id,
			device_id,
			rhythm_label,
			rhythm_confidence,
			risk_label,
			risk_confidence,
			pattern_label,
			pattern_confidence,
			fitness,
			critical_signals,
			overall_status,
			source_snapshot,
			assessed_at,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	`

	_, err = r.db.ExecContext(ctx, query,
		a.AssessmentID,
		deviceID,
		a.Rhythm.Label,
		a.Rhythm.Confidence,
		a.Risk.Label,
		a.Risk.Confidence,
		a.Pattern.Label,
		a.Pattern.Confidence,
		fitnessJSON,
		criticalJSON,
		a.OverallStatus,
		snapshotJSON,
		a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}

	r.logger.Debug("Assessment persisted",
		zap.String("assessment_id", a.AssessmentID),
		zap.String("device_id", deviceID),
		zap.String("overall_status", a.OverallStatus),
	)

	return nil
}

// QueryAssessments 查询设备最近 daysBack 天的评估记录（新到旧）
func (r *AssessmentsRepository) QueryAssessments(ctx context.Context, deviceID string, daysBack int) ([]AssessmentRecord, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("device_id is required")
	}
	if daysBack <= 0 {
		daysBack = 7
	}

	query := `
		SELECT
			assessment_id,
			device_id,
			rhythm_label,
			rhythm_confidence,
			risk_label,
			risk_confidence,
			pattern_label,
			pattern_confidence,
			fitness,
			critical_signals,
			overall_status,
			source_snapshot,
			assessed_at,
			created_at
		FROM assessments
		WHERE device_id = $1
		  AND assessed_at >= NOW() - ($2 || ' days')::interval
		ORDER BY assessed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, deviceID, daysBack)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		var rec AssessmentRecord
		var fitnessJSON, criticalJSON, snapshotJSON []byte

		err := rows.Scan(
			&rec.Assessment.AssessmentID,
			&rec.DeviceID,
			&rec.Assessment.Rhythm.Label,
			&rec.Assessment.Rhythm.Confidence,
			&rec.Assessment.Risk.Label,
			&rec.Assessment.Risk.Confidence,
			&rec.Assessment.Pattern.Label,
			&rec.Assessment.Pattern.Confidence,
			&fitnessJSON,
			&criticalJSON,
			&rec.Assessment.OverallStatus,
			&snapshotJSON,
			&rec.Assessment.Timestamp,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment row: %w", err)
		}

		if err := json.Unmarshal(fitnessJSON, &rec.Assessment.Fitness); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fitness output: %w", err)
		}
		if len(criticalJSON) > 0 {
			if err := json.Unmarshal(criticalJSON, &rec.Assessment.Critical); err != nil {
				return nil, fmt.Errorf("failed to unmarshal critical signals: %w", err)
			}
		}
		if err := json.Unmarshal(snapshotJSON, &rec.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal source snapshot: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment rows: %w", err)
	}

	return records, nil
}
