package pipeline

import (
	"errors"
	"testing"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// fakeLookup 测试用设备目录
type fakeLookup struct {
	snapshot *model.EquipmentSnapshot
	err      error
	gotIDs   []string
	calls    int
}

func (f *fakeLookup) GetEquipmentByIDs(ids []string) (*model.EquipmentSnapshot, error) {
	f.calls++
	f.gotIDs = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func testConfig() *config.AppConfig {
	cfg := config.DefaultConfig()
	cfg.Policy.AllowShrink = true
	return cfg
}

func goodSheet(name string) model.Sheet {
	return model.Sheet{
		Name:    name,
		Headers: []string{"Serial Number", "Total Qty", "Spare Qty", "Item No.", "Description"},
		Rows: [][]string{
			{"E1", "2", "1", "P-100", "Drive belt"},
			{"E2", "1", "0", "P-200", "Filter"},
		},
	}
}

func testLookup() *fakeLookup {
	return &fakeLookup{
		snapshot: &model.EquipmentSnapshot{
			Records: map[string]model.EquipmentRecord{
				"E1": {EquipmentID: "E1", EquipmentType: "Press", Model: "PX-200", MachineCount: 5},
				"E2": {EquipmentID: "E2", EquipmentType: "Lathe", Model: "LT-10", MachineCount: 3},
			},
		},
	}
}

func TestRun_HappyPath(t *testing.T) {
	t.Parallel()

	lookup := testLookup()
	c := NewCoordinator(lookup, testConfig())

	table, report, err := c.Run([]model.Sheet{goodSheet("Line A")}, Options{Filename: "in.xlsx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table == nil || report == nil {
		t.Fatalf("expected table and report")
	}

	if report.RunID == "" {
		t.Fatalf("report should carry a run id")
	}
	if report.TotalRows != 2 || report.EnrichedRows != 2 || report.UnmatchedRows != 0 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if len(report.Sheets) != 1 || report.Sheets[0].Status != "processed" {
		t.Fatalf("unexpected sheet results: %+v", report.Sheets)
	}
	if table.PlanCount() != 2 {
		t.Fatalf("want 2 plans got %d", table.PlanCount())
	}
}

func TestRun_SingleBulkLookup(t *testing.T) {
	t.Parallel()

	lookup := testLookup()
	c := NewCoordinator(lookup, testConfig())

	_, _, err := c.Run([]model.Sheet{goodSheet("Line A"), goodSheet("Line B")}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lookup.calls != 1 {
		t.Fatalf("catalog should be queried exactly once per run, got %d", lookup.calls)
	}
	if len(lookup.gotIDs) != 2 {
		t.Fatalf("ids should be deduplicated across sheets, got %v", lookup.gotIDs)
	}
}

func TestRun_SheetFailureIsolated(t *testing.T) {
	t.Parallel()

	badSheet := model.Sheet{
		Name:    "Bad",
		Headers: []string{"Serial Number", "Notes"},
		Rows:    [][]string{{"E1", "whatever"}},
	}

	c := NewCoordinator(testLookup(), testConfig())
	table, report, err := c.Run([]model.Sheet{badSheet, goodSheet("Line A")}, Options{})
	if err != nil {
		t.Fatalf("a failed sheet must not abort the run: %v", err)
	}

	if len(report.Sheets) != 2 {
		t.Fatalf("want 2 sheet results got %d", len(report.Sheets))
	}
	if report.Sheets[0].Status != "failed" || len(report.Sheets[0].Errors) == 0 {
		t.Fatalf("bad sheet should be reported failed: %+v", report.Sheets[0])
	}
	if report.Sheets[1].Status != "processed" {
		t.Fatalf("good sheet should still process: %+v", report.Sheets[1])
	}
	if table.PlanCount() == 0 {
		t.Fatalf("good sheet rows should still produce plans")
	}
}

func TestRun_LookupFailureAbortsRun(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{err: errors.New("connection refused")}
	c := NewCoordinator(lookup, testConfig())

	table, report, err := c.Run([]model.Sheet{goodSheet("Line A")}, Options{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("want ErrLookupFailed got %v", err)
	}
	if table != nil || report != nil {
		t.Fatalf("aborted run must not produce partial output")
	}
}

func TestRun_UnmatchedRowsReported(t *testing.T) {
	t.Parallel()

	sheet := model.Sheet{
		Name:    "Line A",
		Headers: []string{"Serial Number", "Total Qty", "Spare Qty", "Item No.", "Description"},
		Rows: [][]string{
			{"E1", "2", "1", "P-100", "Drive belt"},
			{"E404", "1", "0", "P-200", "Filter"},
			{"", "1", "0", "P-300", "Hose"},
		},
	}

	c := NewCoordinator(testLookup(), testConfig())
	table, report, err := c.Run([]model.Sheet{sheet}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.EnrichedRows != 1 || report.UnmatchedRows != 2 {
		t.Fatalf("unexpected counts: enriched=%d unmatched=%d", report.EnrichedRows, report.UnmatchedRows)
	}
	if len(report.Unmatched) != 2 {
		t.Fatalf("unmatched rows should be preserved in the report")
	}
	if table.PlanCount() != 1 {
		t.Fatalf("only the matched row should produce a plan, got %d", table.PlanCount())
	}
}

func TestProcess_EmitsDoneEvent(t *testing.T) {
	t.Parallel()

	c := NewCoordinator(testLookup(), testConfig())
	progressChan := c.Process([]model.Sheet{goodSheet("Line A")}, Options{Filename: "in.xlsx"})

	var last ProgressEvent
	var sawStart bool
	for event := range progressChan {
		if event.Type == "start" {
			sawStart = true
		}
		last = event
	}

	if !sawStart {
		t.Fatalf("expected a start event")
	}
	if last.Type != "done" {
		t.Fatalf("last event should be done, got %q", last.Type)
	}
	result, ok := last.Data.(*RunResult)
	if !ok || result.Table == nil || result.Report == nil {
		t.Fatalf("done event should carry the run result, got %#v", last.Data)
	}
}

func TestProcess_EmitsErrorEvent(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{err: errors.New("connection refused")}
	c := NewCoordinator(lookup, testConfig())
	progressChan := c.Process([]model.Sheet{goodSheet("Line A")}, Options{})

	var last ProgressEvent
	for event := range progressChan {
		last = event
	}

	if last.Type != "error" {
		t.Fatalf("last event should be error, got %q", last.Type)
	}
}
