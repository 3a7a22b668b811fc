package model

import "time"

// AmbiguityWarning 列匹配或设备关联中的歧义告警
// 处理不中断，结果采用确定性的平票规则
type AmbiguityWarning struct {
	SheetName  string   `json:"sheetName,omitempty"`
	Field      string   `json:"field,omitempty"`      // 规范字段名
	Header     string   `json:"header,omitempty"`     // 命中的表头
	Candidates []string `json:"candidates,omitempty"` // 平票候选（表头或字段名）
	Message    string   `json:"message"`
}

// PolicyWarningKind 数量策略告警类型
type PolicyWarningKind string

const (
	PolicyFloor   PolicyWarningKind = "floor"   // 被下限抬高
	PolicyCeiling PolicyWarningKind = "ceiling" // 被上限压低
	PolicyInvalid PolicyWarningKind = "invalid" // 非法库存数按 0 处理
)

// PolicyWarning 数量策略修正记录，不阻断输出
type PolicyWarning struct {
	Kind          PolicyWarningKind `json:"kind"`
	EquipmentType string            `json:"equipmentType,omitempty"`
	PartCode      string            `json:"partCode,omitempty"`
	Computed      float64           `json:"computed"` // 策略修正前的值
	Applied       float64           `json:"applied"`  // 实际采用的值
	Message       string            `json:"message"`
}

// SheetResult 单表处理结果
type SheetResult struct {
	SheetName string        `json:"sheetName"`
	Status    string        `json:"status"` // processed/failed/skipped
	RowCount  int           `json:"rowCount"`
	Skipped   int           `json:"skipped"` // 机器标题行 / TBD 行
	Errors    []string      `json:"errors,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// RunReport 单次运行的汇总报告
type RunReport struct {
	RunID    string        `json:"runId"`
	Filename string        `json:"filename,omitempty"`
	Sheets   []SheetResult `json:"sheets"`

	TotalRows     int `json:"totalRows"`
	EnrichedRows  int `json:"enrichedRows"`
	UnmatchedRows int `json:"unmatchedRows"`

	Unmatched        []UnmatchedRow     `json:"unmatched,omitempty"`
	ValidationIssues []ValidationIssue  `json:"validationIssues,omitempty"`
	Ambiguities      []AmbiguityWarning `json:"ambiguities,omitempty"`
	PolicyWarnings   []PolicyWarning    `json:"policyWarnings,omitempty"`

	Duration time.Duration `json:"duration"`
}

// AddSheetResult 记录单表结果并累加统计
func (r *RunReport) AddSheetResult(result SheetResult) {
	r.Sheets = append(r.Sheets, result)
	r.TotalRows += result.RowCount
}
