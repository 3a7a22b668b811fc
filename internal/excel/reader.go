package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// ReadWorkbook 读取 Excel 文件为输入表序列
// 每张表第一行为表头；空表跳过
func ReadWorkbook(path string) ([]model.Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return readSheets(file)
}

// ReadWorkbookFrom 从流读取 Excel（用于上传处理）
func ReadWorkbookFrom(r io.Reader) ([]model.Sheet, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return readSheets(file)
}

// readSheets 逐表读取
func readSheets(file *excelize.File) ([]model.Sheet, error) {
	var sheets []model.Sheet

	for _, sheetName := range file.GetSheetList() {
		rows, err := file.GetRows(sheetName)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		if len(rows) == 0 {
			continue
		}

		sheet := model.Sheet{
			Name:    sheetName,
			Headers: rows[0],
		}
		if len(rows) > 1 {
			sheet.Rows = rows[1:]
		}
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}
