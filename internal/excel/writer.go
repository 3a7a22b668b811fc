package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// 输出表头
var planHeaders = []string{
	"Equipment Type", "Total Qty", "Recommended Qty",
	"Item No.", "Description", "Unit Price ($)", "Models",
}

const (
	planSheetName   = "Spare Plan"
	reportSheetName = "Report"
)

// Writer 输出工作簿生成器
type Writer struct {
	maxColWidths map[int]float64
}

// NewWriter 创建输出生成器
func NewWriter() *Writer {
	return &Writer{
		maxColWidths: make(map[int]float64),
	}
}

// Write 将输出表与运行报告写入新工作簿
// 每个设备类型先写一条类型标题行，再写该组的备件行
func (w *Writer) Write(table *model.OutputTable, report *model.RunReport) (*excelize.File, error) {
	file := excelize.NewFile()

	if err := file.SetSheetName("Sheet1", planSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := w.writePlanSheet(file, table); err != nil {
		_ = file.Close()
		return nil, err
	}

	if report != nil {
		if err := w.writeReportSheet(file, report); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	return file, nil
}

// writePlanSheet 写备件计划表
func (w *Writer) writePlanSheet(file *excelize.File, table *model.OutputTable) error {
	if err := w.writeRow(file, planSheetName, 1, toCells(planHeaders)); err != nil {
		return err
	}

	rowNo := 2
	for _, group := range table.Groups {
		// 类型标题行
		banner := []interface{}{group.EquipmentType, "", "", "", "", "", ""}
		if err := w.writeRow(file, planSheetName, rowNo, banner); err != nil {
			return err
		}
		rowNo++

		for _, plan := range group.Plans {
			unitPrice := interface{}("")
			if plan.HasUnitPrice {
				unitPrice = plan.UnitPrice.InexactFloat64()
			}
			cells := []interface{}{
				"",
				plan.QuantityOnHand,
				plan.RecommendedQuantity,
				plan.PartCode,
				plan.PartDescription,
				unitPrice,
				strings.Join(plan.Models, ", "),
			}
			if err := w.writeRow(file, planSheetName, rowNo, cells); err != nil {
				return err
			}
			rowNo++
		}
	}

	w.applyColWidths(file, planSheetName)
	return nil
}

// writeReportSheet 写运行报告表（未匹配行与告警）
func (w *Writer) writeReportSheet(file *excelize.File, report *model.RunReport) error {
	if _, err := file.NewSheet(reportSheetName); err != nil {
		return fmt.Errorf("failed to create report sheet: %w", err)
	}

	rowNo := 1
	writeLine := func(cells ...interface{}) error {
		err := w.writeRow(file, reportSheetName, rowNo, cells)
		rowNo++
		return err
	}

	if err := writeLine("Run ID", report.RunID); err != nil {
		return err
	}
	if err := writeLine("Total Rows", report.TotalRows); err != nil {
		return err
	}
	if err := writeLine("Enriched Rows", report.EnrichedRows); err != nil {
		return err
	}
	if err := writeLine("Unmatched Rows", report.UnmatchedRows); err != nil {
		return err
	}
	rowNo++

	if len(report.Unmatched) > 0 {
		if err := writeLine("Unmatched", "Sheet", "Row", "Equipment ID", "Part Code", "Reason"); err != nil {
			return err
		}
		for _, u := range report.Unmatched {
			if err := writeLine("", u.Row.SheetName, u.Row.RowNo, u.Row.EquipmentID, u.Row.PartCode, string(u.Reason)); err != nil {
				return err
			}
		}
		rowNo++
	}

	if len(report.Ambiguities) > 0 {
		if err := writeLine("Ambiguities"); err != nil {
			return err
		}
		for _, a := range report.Ambiguities {
			if err := writeLine("", a.SheetName, a.Message); err != nil {
				return err
			}
		}
		rowNo++
	}

	if len(report.PolicyWarnings) > 0 {
		if err := writeLine("Policy Warnings"); err != nil {
			return err
		}
		for _, p := range report.PolicyWarnings {
			if err := writeLine("", p.EquipmentType, p.PartCode, string(p.Kind), p.Message); err != nil {
				return err
			}
		}
	}

	for _, sheet := range report.Sheets {
		if sheet.Status == "failed" {
			if err := writeLine("Failed Sheet", sheet.SheetName, strings.Join(sheet.Errors, "; ")); err != nil {
				return err
			}
		}
	}

	return nil
}

// toCells 字符串表头转单元格值序列
func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// writeRow 写一行并记录列宽
func (w *Writer) writeRow(file *excelize.File, sheetName string, rowNo int, cells []interface{}) error {
	for i, value := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNo)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := file.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}

		if sheetName == planSheetName {
			width := float64(len(fmt.Sprintf("%v", value))) + 2
			if width > w.maxColWidths[i] {
				w.maxColWidths[i] = width
			}
		}
	}
	return nil
}

// applyColWidths 根据内容设置列宽
func (w *Writer) applyColWidths(file *excelize.File, sheetName string) {
	for col, width := range w.maxColWidths {
		if width > 60 {
			width = 60
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			continue
		}
		_ = file.SetColWidth(sheetName, name, name, width)
	}
}
