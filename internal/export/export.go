package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"wisefido-monitor/internal/repository"
)

// AssessmentExportHeader 导出列头（固定列、固定顺序）
var AssessmentExportHeader = []string{
	"Date",
	"Time",
	"HeartRate",
	"HRV",
	"RespiratoryRate",
	"Activity",
	"SleepQuality",
	"RiskLevel",
	"RhythmStatus",
	"PatternStatus",
}

// exportRow 单条记录的导出行
func exportRow(rec repository.AssessmentRecord) []string {
	return []string{
		rec.Assessment.Timestamp.Format("2006-01-02"),
		rec.Assessment.Timestamp.Format("15:04:05"),
		strconv.FormatFloat(rec.Snapshot.MeanHR, 'f', 1, 64),
		strconv.FormatFloat(rec.Snapshot.HRVMean, 'f', 1, 64),
		strconv.FormatFloat(rec.Snapshot.RespiratoryRate, 'f', 1, 64),
		strconv.FormatFloat(rec.Snapshot.ActivityEnergy, 'f', 1, 64),
		strconv.FormatFloat(rec.Snapshot.SleepRatio, 'f', 2, 64),
		rec.Assessment.Risk.Label,
		rec.Assessment.Rhythm.Label,
		rec.Assessment.Pattern.Label,
	}
}

// GenerateCSV 生成评估记录 CSV 导出（按传入顺序输出）
func GenerateCSV(records []repository.AssessmentRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(AssessmentExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range records {
		if err := w.Write(exportRow(rec)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// GenerateExcel 生成评估记录 Excel 导出（与 CSV 同列结构）
func GenerateExcel(records []repository.AssessmentRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Assessments"
	f.SetSheetName("Sheet1", sheet)

	// 写表头
	for col, name := range AssessmentExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	// 写数据行
	for i, rec := range records {
		row := exportRow(rec)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}

	return buf.Bytes(), nil
}
