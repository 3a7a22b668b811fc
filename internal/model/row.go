package model

// Sheet 输入边界的一张表
// 由 I/O 协作方提供：表名 + 表头 + 与表头对齐的数据行
type Sheet struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// RawRow 原始行（表头 -> 单元格值），仅用于错误报告回溯
type RawRow struct {
	SheetName string            `json:"sheetName"`
	RowNo     int               `json:"rowNo"` // Excel 行号（从 1 开始，含表头）
	Cells     map[string]string `json:"cells"`
}

// RawRowAt 构造第 i 个数据行的原始行视图
func (s *Sheet) RawRowAt(i int) RawRow {
	cells := make(map[string]string, len(s.Headers))
	row := s.Rows[i]
	for idx, header := range s.Headers {
		if idx < len(row) {
			cells[header] = row[idx]
		}
	}
	return RawRow{
		SheetName: s.Name,
		RowNo:     i + 2, // 第 1 行是表头
		Cells:     cells,
	}
}

// CanonicalRow 规范化后的行
// 不变式：必填字段缺失的行不会进入该类型，而是记录为校验问题
type CanonicalRow struct {
	SheetName string `json:"sheetName"`
	RowNo     int    `json:"rowNo"`

	EquipmentID     string  `json:"equipmentId"`
	PartCode        string  `json:"partCode"`
	PartDescription string  `json:"partDescription"`
	QuantityOnHand  float64 `json:"quantityOnHand"`
	SpareQuantity   float64 `json:"spareQuantity"`

	UnitPrice string `json:"unitPrice"` // 原始单价文本，空表示缺失
}

// ReasonCode 行被排除的原因码
type ReasonCode string

const (
	ReasonNotFound           ReasonCode = "not_found"           // 设备目录中不存在
	ReasonDuplicateAmbiguous ReasonCode = "duplicate_ambiguous" // 设备目录中存在多条记录
	ReasonNullIdentifier     ReasonCode = "null_identifier"     // 设备标识为空
)

// UnmatchedRow 未能关联设备记录的行，保留在报告中
type UnmatchedRow struct {
	Row    CanonicalRow `json:"row"`
	Reason ReasonCode   `json:"reason"`
}

// ValidationIssue 行/表级校验问题
type ValidationIssue struct {
	SheetName string `json:"sheetName"`
	RowNo     int    `json:"rowNo,omitempty"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}
