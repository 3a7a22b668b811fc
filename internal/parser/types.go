package parser

import (
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// ColumnMatch 单个规范字段的匹配结果
type ColumnMatch struct {
	Field       string  `json:"field"`       // 规范字段名
	Header      string  `json:"header"`      // 命中的原始表头
	ColumnIndex int     `json:"columnIndex"` // 表头所在列
	Score       float64 `json:"score"`       // 相似度得分，精确命中为 1
	Exact       bool    `json:"exact"`       // 是否精确命中
}

// MatchResult 单张表的列匹配结果
type MatchResult struct {
	Fields   map[string]ColumnMatch   `json:"fields"`
	Missing  []string                 `json:"missing,omitempty"` // 无法匹配的必填字段
	Warnings []model.AmbiguityWarning `json:"warnings,omitempty"`
}

// OK 必填字段是否全部匹配
func (r *MatchResult) OK() bool {
	return len(r.Missing) == 0
}

// SheetParseResult 单张表的解析结果
type SheetParseResult struct {
	SheetName string                  `json:"sheetName"`
	Match     *MatchResult            `json:"match"`
	Rows      []model.CanonicalRow    `json:"rows"`
	Issues    []model.ValidationIssue `json:"issues,omitempty"`
	Skipped   int                     `json:"skipped"` // 机器标题行与占位备件号行
}
