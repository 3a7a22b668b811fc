package parser

import (
	"fmt"
	"strings"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// SheetParser 将输入表解析为规范行
type SheetParser struct {
	matcher *ColumnMatcher
}

// NewSheetParser 创建表解析器
func NewSheetParser(schema config.SchemaConfig) *SheetParser {
	return &SheetParser{
		matcher: NewColumnMatcher(schema),
	}
}

// Parse 解析单张表
// 必填列匹配失败返回错误（携带匹配结果供报告使用），不影响其他表
func (p *SheetParser) Parse(sheet *model.Sheet) (*SheetParseResult, error) {
	result := &SheetParseResult{
		SheetName: sheet.Name,
	}

	match := p.matcher.Match(sheet.Name, sheet.Headers)
	result.Match = match

	if !match.OK() {
		return result, fmt.Errorf("sheet %q: no acceptable match for required columns: %s",
			sheet.Name, strings.Join(match.Missing, ", "))
	}

	for i := range sheet.Rows {
		rowNo := i + 2 // 第 1 行是表头
		row := p.parseRow(sheet, i, rowNo, match, result)
		if row != nil {
			result.Rows = append(result.Rows, *row)
		}
	}

	return result, nil
}

// parseRow 解析单行；机器标题行与占位备件号行返回 nil 并计入 Skipped
func (p *SheetParser) parseRow(sheet *model.Sheet, i, rowNo int, match *MatchResult, result *SheetParseResult) *model.CanonicalRow {
	cell := func(field string) string {
		m, ok := match.Fields[field]
		if !ok {
			return ""
		}
		row := sheet.Rows[i]
		if m.ColumnIndex >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[m.ColumnIndex])
	}

	partCode := cell("part_code")
	partDesc := cell("part_description")

	// 机器标题行：只有序列号、没有备件数据
	if partCode == "" || partDesc == "" {
		result.Skipped++
		return nil
	}
	if IsPlaceholderPartCode(partCode) {
		result.Skipped++
		return nil
	}

	row := &model.CanonicalRow{
		SheetName:       sheet.Name,
		RowNo:           rowNo,
		EquipmentID:     cell("equipment_id"),
		PartCode:        partCode,
		PartDescription: partDesc,
		UnitPrice:       cell("unit_price"),
	}

	row.QuantityOnHand = p.parseQuantityField(sheet.Name, rowNo, "quantity_on_hand", cell("quantity_on_hand"), result)
	row.SpareQuantity = p.parseQuantityField(sheet.Name, rowNo, "spare_quantity", cell("spare_quantity"), result)

	return row
}

// parseQuantityField 解析数量字段
// 非数值与负数按 0 处理并记录告警，绝不在此组件抛错
func (p *SheetParser) parseQuantityField(sheetName string, rowNo int, field, value string, result *SheetParseResult) float64 {
	if value == "" {
		return 0
	}

	f, ok := ParseQuantity(value)
	if !ok {
		result.Issues = append(result.Issues, model.ValidationIssue{
			SheetName: sheetName,
			RowNo:     rowNo,
			Field:     field,
			Message:   fmt.Sprintf("non-numeric value %q treated as 0", value),
		})
		return 0
	}
	if f < 0 {
		result.Issues = append(result.Issues, model.ValidationIssue{
			SheetName: sheetName,
			RowNo:     rowNo,
			Field:     field,
			Message:   fmt.Sprintf("negative value %v treated as 0", f),
		})
		return 0
	}
	return f
}
