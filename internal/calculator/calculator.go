package calculator

import (
	"fmt"
	"math"

	"github.com/Arjunreddypulugu/excel-with-formula/internal/config"
	"github.com/Arjunreddypulugu/excel-with-formula/internal/model"
)

// Calculator 备件数量计算器
// 推荐数是 machine_count 的单调不减纯函数，只依赖策略配置与行自身输入
type Calculator struct {
	policy config.PolicyConfig
}

// New 创建计算器
func New(policy config.PolicyConfig) *Calculator {
	return &Calculator{policy: policy}
}

// Recommend 计算推荐备件数
// 基线：max(global_minimum, ceil(machine_count × spare_ratio))；
// 台数为 0 只取最低备货数；floor/ceiling 修正记录为策略告警，不阻断输出
func (c *Calculator) Recommend(equipmentType, partCode string, machineCount int, quantityOnHand float64) (int, []model.PolicyWarning) {
	var warnings []model.PolicyWarning

	recommended := c.baseline(partCode, machineCount)

	if c.policy.UseScaleLadder && machineCount > 0 {
		factor := c.ladderFactor(machineCount)
		recommended = int(math.Ceil(float64(recommended) * factor))
	}

	// 下限：不允许收缩时，推荐数不得低于现有库存
	if !c.policy.AllowShrink {
		floor := int(math.Ceil(quantityOnHand))
		if recommended < floor {
			warnings = append(warnings, model.PolicyWarning{
				Kind:          model.PolicyFloor,
				EquipmentType: equipmentType,
				PartCode:      partCode,
				Computed:      float64(recommended),
				Applied:       float64(floor),
				Message:       fmt.Sprintf("recommended quantity raised from %d to on-hand floor %d", recommended, floor),
			})
			recommended = floor
		}
	}

	// 上限：防止高台数设备类型的推荐数失控
	if c.policy.MaximumCap > 0 && recommended > c.policy.MaximumCap {
		warnings = append(warnings, model.PolicyWarning{
			Kind:          model.PolicyCeiling,
			EquipmentType: equipmentType,
			PartCode:      partCode,
			Computed:      float64(recommended),
			Applied:       float64(c.policy.MaximumCap),
			Message:       fmt.Sprintf("recommended quantity capped from %d to %d", recommended, c.policy.MaximumCap),
		})
		recommended = c.policy.MaximumCap
	}

	if recommended < 0 {
		recommended = 0
	}

	return recommended, warnings
}

// baseline 基线推荐数
func (c *Calculator) baseline(partCode string, machineCount int) int {
	if machineCount <= 0 {
		return c.policy.GlobalMinimum
	}

	ratio := c.policy.SpareRatio(partCode)
	scaled := int(math.Ceil(float64(machineCount) * ratio))

	if scaled < c.policy.GlobalMinimum {
		return c.policy.GlobalMinimum
	}
	return scaled
}

// ladderFactor 台数阶梯乘数
// 档位按 max_count 升序匹配，超出最高档位用 ladder_max_factor
func (c *Calculator) ladderFactor(machineCount int) float64 {
	for _, band := range c.policy.Ladder {
		if machineCount < band.MaxCount {
			return band.Factor
		}
	}
	if c.policy.LadderMaxFactor > 0 {
		return c.policy.LadderMaxFactor
	}
	return 1.0
}
