package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/calculator"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/enricher"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/parser"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/reorganizer"
)

// ErrLookupFailed 设备目录查询整体失败
// 区别于单行未命中：所有行的台数都不可信，整次运行中止，不产出部分结果
var ErrLookupFailed = errors.New("equipment lookup failed")

// EquipmentLookup 设备目录查询边界
// 同步批量查询，缺席的标识视为未找到；连接与凭据由实现方管理
type EquipmentLookup interface {
	GetEquipmentByIDs(ids []string) (*model.EquipmentSnapshot, error)
}

// Coordinator 处理协调器
// 串联列匹配、设备补全、数量计算与重组，聚合运行报告
type Coordinator struct {
	lookup EquipmentLookup
	cfg    *config.AppConfig
}

// NewCoordinator 创建处理协调器
func NewCoordinator(lookup EquipmentLookup, cfg *config.AppConfig) *Coordinator {
	return &Coordinator{
		lookup: lookup,
		cfg:    cfg,
	}
}

// Options 运行选项
type Options struct {
	Filename string // 源文件名，仅用于报告
}

// RunResult 运行产出
type RunResult struct {
	Table  *model.OutputTable `json:"table"`
	Report *model.RunReport   `json:"report"`
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"` // start/sheet_start/sheet_done/info/warning/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Run 同步执行一次完整处理
// 单表匹配失败不中断其他表；目录查询失败返回 ErrLookupFailed 且不产出输出表
func (c *Coordinator) Run(sheets []model.Sheet, opts Options) (*model.OutputTable, *model.RunReport, error) {
	return c.run(sheets, opts, nil)
}

// Process 异步执行，返回进度通道
// 最后一个事件为 done（携带 RunResult）或 error
func (c *Coordinator) Process(sheets []model.Sheet, opts Options) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)

		emit := func(event ProgressEvent) {
			select {
			case progressChan <- event:
			default:
				// 通道已满，丢弃事件
			}
		}

		table, report, err := c.run(sheets, opts, emit)
		if err != nil {
			emit(ProgressEvent{
				Type:      "error",
				Message:   err.Error(),
				Timestamp: time.Now(),
			})
			return
		}

		emit(ProgressEvent{
			Type:      "done",
			Message:   "处理完成",
			Data:      &RunResult{Table: table, Report: report},
			Timestamp: time.Now(),
		})
	}()

	return progressChan
}

// run 执行处理流程，emit 为空时不发进度事件
func (c *Coordinator) run(sheets []model.Sheet, opts Options, emit func(ProgressEvent)) (*model.OutputTable, *model.RunReport, error) {
	startTime := time.Now()

	report := &model.RunReport{
		RunID:    uuid.NewString(),
		Filename: opts.Filename,
	}

	c.send(emit, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("开始处理，共 %d 个 Sheet", len(sheets)),
		Data: map[string]interface{}{
			"runId":       report.RunID,
			"totalSheets": len(sheets),
		},
		Timestamp: time.Now(),
	})

	// 逐表列匹配与规范化，失败的表只记录、不中断
	var canonical []model.CanonicalRow
	sheetParser := parser.NewSheetParser(c.cfg.Schema)

	for i := range sheets {
		sheet := &sheets[i]
		sheetStart := time.Now()

		c.send(emit, ProgressEvent{
			Type:      "sheet_start",
			Message:   fmt.Sprintf("正在解析 Sheet: %s", sheet.Name),
			Timestamp: time.Now(),
		})

		parsed, err := sheetParser.Parse(sheet)
		if parsed != nil && parsed.Match != nil {
			report.Ambiguities = append(report.Ambiguities, parsed.Match.Warnings...)
		}

		if err != nil {
			report.AddSheetResult(model.SheetResult{
				SheetName: sheet.Name,
				Status:    "failed",
				Errors:    []string{err.Error()},
				Duration:  time.Since(sheetStart),
			})
			c.send(emit, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("Sheet \"%s\" 解析失败: %v", sheet.Name, err),
				Timestamp: time.Now(),
			})
			continue
		}

		report.ValidationIssues = append(report.ValidationIssues, parsed.Issues...)
		canonical = append(canonical, parsed.Rows...)

		report.AddSheetResult(model.SheetResult{
			SheetName: sheet.Name,
			Status:    "processed",
			RowCount:  len(parsed.Rows),
			Skipped:   parsed.Skipped,
			Duration:  time.Since(sheetStart),
		})

		c.send(emit, ProgressEvent{
			Type:    "sheet_done",
			Message: fmt.Sprintf("Sheet \"%s\" 解析完成: %d 行", sheet.Name, len(parsed.Rows)),
			Data: map[string]interface{}{
				"sheetName": sheet.Name,
				"rowCount":  len(parsed.Rows),
			},
			Timestamp: time.Now(),
		})
	}

	// 单次批量查询设备目录
	ids := enricher.CollectEquipmentIDs(canonical)

	c.send(emit, ProgressEvent{
		Type:      "info",
		Message:   fmt.Sprintf("查询设备目录: %d 个标识", len(ids)),
		Timestamp: time.Now(),
	})

	snapshot, err := c.lookup.GetEquipmentByIDs(ids)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	// 补全设备类型与台数
	enriched := enricher.Enrich(canonical, snapshot)
	report.Ambiguities = append(report.Ambiguities, enriched.Warnings...)
	report.Unmatched = enriched.Unmatched
	report.EnrichedRows = len(enriched.Enriched)
	report.UnmatchedRows = len(enriched.Unmatched)

	if len(enriched.Unmatched) > 0 {
		c.send(emit, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("%d 行未能关联设备记录", len(enriched.Unmatched)),
			Timestamp: time.Now(),
		})
	}

	// 合并重组并在合并口径上重新计算推荐数
	calc := calculator.New(c.cfg.Policy)
	reorg := reorganizer.New(calc, c.cfg.Output)
	table, policyWarnings := reorg.Build(enriched.Enriched)
	report.PolicyWarnings = policyWarnings

	report.Duration = time.Since(startTime)

	return table, report, nil
}

// send 发送进度事件（emit 为空时忽略）
func (c *Coordinator) send(emit func(ProgressEvent), event ProgressEvent) {
	if emit != nil {
		emit(event)
	}
}
