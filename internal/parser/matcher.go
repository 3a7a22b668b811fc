package parser

import (
	"fmt"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// ColumnMatcher 列名匹配器
// 两阶段：先按规范化文本精确匹配，再按相似度阈值做模糊兜底
type ColumnMatcher struct {
	schema config.SchemaConfig
}

// NewColumnMatcher 创建列名匹配器
func NewColumnMatcher(schema config.SchemaConfig) *ColumnMatcher {
	return &ColumnMatcher{schema: schema}
}

// fieldTargets 字段的规范化匹配目标（字段名 + 同义词）
func fieldTargets(field config.FieldConfig) []string {
	targets := make([]string, 0, len(field.Synonyms)+1)
	targets = append(targets, NormalizeFieldName(field.Name))
	for _, syn := range field.Synonyms {
		targets = append(targets, NormalizeColumnName(syn))
	}
	return targets
}

// Match 将一张表的表头映射到规范字段
// 字段按声明顺序处理：歧义平票时先声明的字段优先，列位置靠前的表头优先
func (m *ColumnMatcher) Match(sheetName string, headers []string) *MatchResult {
	result := &MatchResult{
		Fields: make(map[string]ColumnMatch),
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeColumnName(h)
	}

	consumed := make([]bool, len(headers))

	// 阶段一：精确匹配
	for _, field := range m.schema.Fields {
		targets := fieldTargets(field)

		var hits []int
		for idx, norm := range normalized {
			if consumed[idx] || norm == "" {
				continue
			}
			if containsString(targets, norm) {
				hits = append(hits, idx)
			}
		}
		if len(hits) == 0 {
			continue
		}

		chosen := hits[0] // 列位置靠前者优先
		consumed[chosen] = true
		result.Fields[field.Name] = ColumnMatch{
			Field:       field.Name,
			Header:      headers[chosen],
			ColumnIndex: chosen,
			Score:       1.0,
			Exact:       true,
		}

		if len(hits) > 1 {
			candidates := make([]string, 0, len(hits))
			for _, idx := range hits {
				candidates = append(candidates, headers[idx])
			}
			result.Warnings = append(result.Warnings, model.AmbiguityWarning{
				SheetName:  sheetName,
				Field:      field.Name,
				Header:     headers[chosen],
				Candidates: candidates,
				Message:    fmt.Sprintf("multiple headers match field %q exactly, using column %d", field.Name, chosen+1),
			})
		}

		// 同一表头同时命中多个字段的同义词集时，归先声明的字段并记录歧义
		if others := m.exactHitFields(normalized[chosen], field.Name); len(others) > 0 {
			result.Warnings = append(result.Warnings, model.AmbiguityWarning{
				SheetName:  sheetName,
				Field:      field.Name,
				Header:     headers[chosen],
				Candidates: append([]string{field.Name}, others...),
				Message:    fmt.Sprintf("header %q matches multiple canonical fields, resolved to first-declared %q", headers[chosen], field.Name),
			})
		}
	}

	// 阶段二：模糊兜底
	for _, field := range m.schema.Fields {
		if _, ok := result.Fields[field.Name]; ok {
			continue
		}
		targets := fieldTargets(field)

		bestScore := 0.0
		var ties []int
		for idx, norm := range normalized {
			if consumed[idx] || norm == "" {
				continue
			}
			score := bestSimilarity(norm, targets)
			if score < m.schema.FuzzyThreshold {
				continue
			}
			switch {
			case score > bestScore+scoreEpsilon:
				bestScore = score
				ties = []int{idx}
			case score > bestScore-scoreEpsilon:
				ties = append(ties, idx)
			}
		}

		if len(ties) == 0 {
			if field.Required {
				result.Missing = append(result.Missing, field.Name)
			}
			continue
		}

		chosen := ties[0]
		consumed[chosen] = true
		result.Fields[field.Name] = ColumnMatch{
			Field:       field.Name,
			Header:      headers[chosen],
			ColumnIndex: chosen,
			Score:       bestScore,
		}

		if len(ties) > 1 {
			candidates := make([]string, 0, len(ties))
			for _, idx := range ties {
				candidates = append(candidates, headers[idx])
			}
			result.Warnings = append(result.Warnings, model.AmbiguityWarning{
				SheetName:  sheetName,
				Field:      field.Name,
				Header:     headers[chosen],
				Candidates: candidates,
				Message:    fmt.Sprintf("headers tie at %.2f for field %q, using column %d", bestScore, field.Name, chosen+1),
			})
		}
	}

	return result
}

// scoreEpsilon 相似度平票判定的容差
const scoreEpsilon = 1e-9

// exactHitFields 返回除 current 外同义词集精确包含 norm 的字段名
func (m *ColumnMatcher) exactHitFields(norm, current string) []string {
	var hits []string
	for _, field := range m.schema.Fields {
		if field.Name == current {
			continue
		}
		if containsString(fieldTargets(field), norm) {
			hits = append(hits, field.Name)
		}
	}
	return hits
}

// bestSimilarity 取文本与一组目标的最高相似度
func bestSimilarity(norm string, targets []string) float64 {
	best := 0.0
	for _, t := range targets {
		if s := Similarity(norm, t); s > best {
			best = s
		}
	}
	return best
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
