package enricher

import (
	"fmt"
	"strings"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// CollectEquipmentIDs 收集规范行中出现的设备标识
// 去重、去空，保持首次出现顺序，供一次性批量查询使用
func CollectEquipmentIDs(rows []model.CanonicalRow) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range rows {
		id := strings.TrimSpace(row.EquipmentID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// Result 补全结果
type Result struct {
	Enriched  []model.EnrichedRow
	Unmatched []model.UnmatchedRow
	Warnings  []model.AmbiguityWarning
}

// Enrich 将规范行与设备目录快照关联
// 不修改输入行；关联失败的行进入 Unmatched 并附原因码：
// 标识为空 null_identifier，目录缺席 not_found，目录多条 duplicate_ambiguous
func Enrich(rows []model.CanonicalRow, snapshot *model.EquipmentSnapshot) *Result {
	result := &Result{}
	warned := make(map[string]bool)

	for _, row := range rows {
		id := strings.TrimSpace(row.EquipmentID)

		if id == "" {
			result.Unmatched = append(result.Unmatched, model.UnmatchedRow{
				Row:    row,
				Reason: model.ReasonNullIdentifier,
			})
			continue
		}

		if snapshot.IsDuplicate(id) {
			result.Unmatched = append(result.Unmatched, model.UnmatchedRow{
				Row:    row,
				Reason: model.ReasonDuplicateAmbiguous,
			})
			if !warned[id] {
				warned[id] = true
				result.Warnings = append(result.Warnings, model.AmbiguityWarning{
					SheetName: row.SheetName,
					Message:   fmt.Sprintf("multiple equipment records found for identifier %q", id),
				})
			}
			continue
		}

		record, ok := snapshot.Records[id]
		if !ok {
			result.Unmatched = append(result.Unmatched, model.UnmatchedRow{
				Row:    row,
				Reason: model.ReasonNotFound,
			})
			continue
		}

		result.Enriched = append(result.Enriched, model.EnrichedRow{
			CanonicalRow:  row,
			EquipmentType: record.EquipmentType,
			EquipmentName: record.Model,
			MachineCount:  record.MachineCount,
		})
	}

	return result
}
