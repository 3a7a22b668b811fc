package reorganizer

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/calculator"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// Reorganizer 输出重组器
// 按（设备类型, 备件号）合并多表数据，产出按类型分组的有序输出
type Reorganizer struct {
	calc   *calculator.Calculator
	output config.OutputConfig
}

// New 创建重组器
func New(calc *calculator.Calculator, output config.OutputConfig) *Reorganizer {
	return &Reorganizer{
		calc:   calc,
		output: output,
	}
}

// planKey 合并键
type planKey struct {
	equipmentType string
	partCode      string
}

// planAccumulator 单个计划的累加状态
type planAccumulator struct {
	description  string
	quantitySum  float64
	unitPrice    decimal.Decimal
	hasUnitPrice bool

	// 台数按 equipment_id 去重：首次出现的目录记录为准，数量跨表累加
	machineByID map[string]int
	idOrder     []string
	models      map[string]bool
}

// Build 合并行并产出输出表
// 同键行的 quantity_on_hand 求和；machine_count 按 equipment_id 去重后求和；
// 推荐数在合并后的台数口径上重新计算
func (r *Reorganizer) Build(rows []model.EnrichedRow) (*model.OutputTable, []model.PolicyWarning) {
	plans := make(map[planKey]*planAccumulator)
	var keyOrder []planKey
	var typeOrder []string
	seenType := make(map[string]bool)

	for _, row := range rows {
		if !seenType[row.EquipmentType] {
			seenType[row.EquipmentType] = true
			typeOrder = append(typeOrder, row.EquipmentType)
		}

		key := planKey{equipmentType: row.EquipmentType, partCode: row.PartCode}
		acc, ok := plans[key]
		if !ok {
			acc = &planAccumulator{
				machineByID: make(map[string]int),
				models:      make(map[string]bool),
			}
			plans[key] = acc
			keyOrder = append(keyOrder, key)
		}

		if acc.description == "" {
			acc.description = row.PartDescription
		}
		acc.quantitySum += row.QuantityOnHand

		if !acc.hasUnitPrice {
			if price, ok := parseUnitPrice(row.UnitPrice); ok {
				acc.unitPrice = price
				acc.hasUnitPrice = true
			}
		}

		if _, ok := acc.machineByID[row.EquipmentID]; !ok {
			acc.machineByID[row.EquipmentID] = row.MachineCount
			acc.idOrder = append(acc.idOrder, row.EquipmentID)
		}
		if row.EquipmentName != "" {
			acc.models[row.EquipmentName] = true
		}
	}

	var policyWarnings []model.PolicyWarning
	grouped := make(map[string][]model.SparePlan)

	for _, key := range keyOrder {
		acc := plans[key]

		machineCount := 0
		for _, count := range acc.machineByID {
			machineCount += count
		}

		recommended, warnings := r.calc.Recommend(key.equipmentType, key.partCode, machineCount, acc.quantitySum)
		policyWarnings = append(policyWarnings, warnings...)

		plan := model.SparePlan{
			EquipmentType:       key.equipmentType,
			PartCode:            key.partCode,
			PartDescription:     acc.description,
			MachineCount:        machineCount,
			QuantityOnHand:      acc.quantitySum,
			RecommendedQuantity: recommended,
			Models:              sortedKeys(acc.models),
			EquipmentIDs:        append([]string(nil), acc.idOrder...),
			UnitPrice:           acc.unitPrice,
			HasUnitPrice:        acc.hasUnitPrice,
		}
		grouped[key.equipmentType] = append(grouped[key.equipmentType], plan)
	}

	table := &model.OutputTable{}
	for _, equipmentType := range r.orderTypes(typeOrder) {
		group := model.PlanGroup{
			EquipmentType: equipmentType,
			Plans:         grouped[equipmentType],
			TotalValue:    decimal.Zero,
		}

		// 组内按备件号升序
		sort.SliceStable(group.Plans, func(i, j int) bool {
			return group.Plans[i].PartCode < group.Plans[j].PartCode
		})

		for _, plan := range group.Plans {
			if plan.HasUnitPrice {
				group.TotalValue = group.TotalValue.Add(
					plan.UnitPrice.Mul(decimal.NewFromInt(int64(plan.RecommendedQuantity))))
			}
		}

		table.Groups = append(table.Groups, group)
	}

	return table, policyWarnings
}

// orderTypes 按配置排序设备类型
// first_seen 默认；priority 把清单内类型置前，其余保持首见顺序；alphabetical 字典序
func (r *Reorganizer) orderTypes(firstSeen []string) []string {
	switch r.output.GroupOrder {
	case config.GroupOrderAlphabetical:
		ordered := append([]string(nil), firstSeen...)
		sort.Strings(ordered)
		return ordered
	case config.GroupOrderPriority:
		present := make(map[string]bool, len(firstSeen))
		for _, t := range firstSeen {
			present[t] = true
		}

		var ordered []string
		picked := make(map[string]bool)
		for _, t := range r.output.Priority {
			if present[t] && !picked[t] {
				picked[t] = true
				ordered = append(ordered, t)
			}
		}
		for _, t := range firstSeen {
			if !picked[t] {
				ordered = append(ordered, t)
			}
		}
		return ordered
	default:
		return firstSeen
	}
}

// parseUnitPrice 解析单价文本（去货币符号与千分位）
func parseUnitPrice(value string) (decimal.Decimal, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return decimal.Zero, false
	}
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)

	price, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
