package model

import "github.com/shopspring/decimal"

// EnrichedRow 关联设备信息后的行
// 不变式：进入重组器的行 EquipmentType 一定非空
type EnrichedRow struct {
	CanonicalRow

	EquipmentType string `json:"equipmentType"`
	EquipmentName string `json:"equipmentName"` // 设备型号（目录 Model 字段）
	MachineCount  int    `json:"machineCount"`
}

// SparePlan 输出单元：某设备类型下某备件的备货计划
type SparePlan struct {
	EquipmentType       string   `json:"equipmentType"`
	PartCode            string   `json:"partCode"`
	PartDescription     string   `json:"partDescription"`
	MachineCount        int      `json:"machineCount"` // 按 equipment_id 去重后的装机台数
	QuantityOnHand      float64  `json:"quantityOnHand"`
	RecommendedQuantity int      `json:"recommendedQuantity"`
	Models              []string `json:"models,omitempty"`       // 贡献此计划的设备型号（有序）
	EquipmentIDs        []string `json:"equipmentIds,omitempty"` // 贡献此计划的设备标识（有序）

	UnitPrice    decimal.Decimal `json:"unitPrice"`
	HasUnitPrice bool            `json:"hasUnitPrice"`
}

// PlanGroup 同一设备类型下的计划组
type PlanGroup struct {
	EquipmentType string          `json:"equipmentType"`
	Plans         []SparePlan     `json:"plans"`
	TotalValue    decimal.Decimal `json:"totalValue"` // 推荐数量 × 单价 汇总（缺价的计划不计入）
}

// OutputTable 按设备类型分组的有序输出
// 每次运行新建，运行结束即失效
type OutputTable struct {
	Groups []PlanGroup `json:"groups"`
}

// PlanCount 输出的计划总数
func (t *OutputTable) PlanCount() int {
	n := 0
	for _, g := range t.Groups {
		n += len(g.Plans)
	}
	return n
}
