// Package export renders cabinet export plans as Excel workbooks.
package export

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/cabinet-medical/cabinet-console/internal/application/port"
	"github.com/cabinet-medical/cabinet-console/internal/domain/cabinet"
)

// ContentTypeXLSX is the MIME type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	minColumnWidth = 10
	maxColumnWidth = 60
)

// XLSXExporter implements port.SpreadsheetExporter with excelize
type XLSXExporter struct {
	logger *zap.Logger
}

// NewXLSXExporter creates a new XLSXExporter
func NewXLSXExporter(logger *zap.Logger) *XLSXExporter {
	return &XLSXExporter{logger: logger}
}

// Export writes one sheet: a bold header row of column labels followed by
// one row per record.
func (x *XLSXExporter) Export(ctx context.Context, plan cabinet.ExportPlan) (*port.ExportFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(plan.Columns) == 0 {
		return nil, cabinet.ErrNoColumnsSelected
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			x.logger.Warn("Failed to close workbook", zap.Error(err))
		}
	}()

	sheet := plan.SheetName
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	widths := make([]int, len(plan.Columns))
	header := make([]interface{}, len(plan.Columns))
	for i, col := range plan.Columns {
		header[i] = col.Label
		widths[i] = utf8.RuneCountInString(col.Label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for r, row := range plan.Rows {
		values := make([]interface{}, len(plan.Columns))
		for i := range plan.Columns {
			if i < len(row) {
				values[i] = row[i]
				widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := x.styleHeader(f, sheet, len(plan.Columns)); err != nil {
		return nil, err
	}
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := float64(min(max(w+2, minColumnWidth), maxColumnWidth))
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	x.logger.Debug("Workbook rendered",
		zap.String("sheet", sheet),
		zap.Int("rows", len(plan.Rows)),
		zap.Int("size", buf.Len()))

	return &port.ExportFile{
		Filename:    plan.FilenameBase + ".xlsx",
		ContentType: ContentTypeXLSX,
		Content:     buf.Bytes(),
		Rows:        len(plan.Rows),
	}, nil
}

func (x *XLSXExporter) styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E2E8F0"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.SpreadsheetExporter = (*XLSXExporter)(nil)
