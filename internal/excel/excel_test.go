package excel

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

func TestReadWorkbook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "in.xlsx")

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Line A"); err != nil {
		t.Fatalf("failed to rename sheet: %v", err)
	}
	rows := [][]interface{}{
		{"Serial Number", "Total Qty", "Item No."},
		{"E1", 2, "P-100"},
		{"E2", 3, "P-200"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Line A", cell, &row); err != nil {
			t.Fatalf("failed to write row: %v", err)
		}
	}
	if _, err := f.NewSheet("Empty"); err != nil {
		t.Fatalf("failed to create sheet: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	_ = f.Close()

	sheets, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sheets) != 1 {
		t.Fatalf("empty sheets should be skipped, want 1 got %d", len(sheets))
	}
	sheet := sheets[0]
	if sheet.Name != "Line A" {
		t.Fatalf("unexpected sheet name %q", sheet.Name)
	}
	if len(sheet.Headers) != 3 || sheet.Headers[0] != "Serial Number" {
		t.Fatalf("unexpected headers %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 || sheet.Rows[0][0] != "E1" {
		t.Fatalf("unexpected rows %v", sheet.Rows)
	}
}

func testOutputTable() *model.OutputTable {
	return &model.OutputTable{
		Groups: []model.PlanGroup{
			{
				EquipmentType: "Press",
				Plans: []model.SparePlan{
					{
						EquipmentType:       "Press",
						PartCode:            "P-100",
						PartDescription:     "Drive belt",
						MachineCount:        5,
						QuantityOnHand:      5,
						RecommendedQuantity: 5,
						Models:              []string{"PX-200"},
						UnitPrice:           decimal.RequireFromString("12.50"),
						HasUnitPrice:        true,
					},
				},
				TotalValue: decimal.RequireFromString("62.50"),
			},
		},
	}
}

func TestWrite_PlanSheetLayout(t *testing.T) {
	t.Parallel()

	report := &model.RunReport{
		RunID:        "run-1",
		TotalRows:    2,
		EnrichedRows: 1,
		Unmatched: []model.UnmatchedRow{
			{
				Row:    model.CanonicalRow{SheetName: "Line A", RowNo: 3, EquipmentID: "E404", PartCode: "P-200"},
				Reason: model.ReasonNotFound,
			},
		},
	}

	file, err := NewWriter().Write(testOutputTable(), report)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Spare Plan")
	if err != nil {
		t.Fatalf("failed to read plan sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + banner + plan rows, got %d", len(rows))
	}

	if rows[0][0] != "Equipment Type" || rows[0][3] != "Item No." {
		t.Fatalf("unexpected header row %v", rows[0])
	}
	// 类型标题行只填第一列
	if rows[1][0] != "Press" {
		t.Fatalf("banner row should carry the equipment type, got %v", rows[1])
	}
	// 备件行第一列留空
	if rows[2][0] != "" || rows[2][3] != "P-100" || rows[2][4] != "Drive belt" {
		t.Fatalf("unexpected plan row %v", rows[2])
	}

	reportRows, err := file.GetRows("Report")
	if err != nil {
		t.Fatalf("failed to read report sheet: %v", err)
	}
	if reportRows[0][0] != "Run ID" || reportRows[0][1] != "run-1" {
		t.Fatalf("unexpected report head %v", reportRows[0])
	}

	var sawUnmatched bool
	for _, row := range reportRows {
		for _, cell := range row {
			if cell == "not_found" {
				sawUnmatched = true
			}
		}
	}
	if !sawUnmatched {
		t.Fatalf("report sheet should list unmatched rows")
	}
}

func TestWrite_NilReport(t *testing.T) {
	t.Parallel()

	file, err := NewWriter().Write(testOutputTable(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer file.Close()

	if _, err := file.GetRows("Spare Plan"); err != nil {
		t.Fatalf("plan sheet should exist: %v", err)
	}
	for _, name := range file.GetSheetList() {
		if name == "Report" {
			t.Fatalf("report sheet should be omitted when no report is given")
		}
	}
}

func TestRoundtrip_WriteThenRead(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.xlsx")

	file, err := NewWriter().Write(testOutputTable(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	_ = file.Close()

	sheets, err := ReadWorkbook(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheets) != 1 || sheets[0].Name != "Spare Plan" {
		t.Fatalf("unexpected sheets: %+v", sheets)
	}
}
