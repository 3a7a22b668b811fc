package model

// EquipmentRecord 设备目录记录
// 由外部设备目录拥有，引擎只持有单次运行内的不可变快照
type EquipmentRecord struct {
	EquipmentID   string `json:"equipmentId"`
	EquipmentType string `json:"equipmentType"`
	Model         string `json:"model"`
	MachineCount  int    `json:"machineCount"` // 装机台数，>= 0
}

// EquipmentSnapshot 单次运行的设备目录快照
// Records 中每个标识只保留一条记录；出现多条的标识记入 Duplicates
type EquipmentSnapshot struct {
	Records    map[string]EquipmentRecord `json:"records"`
	Duplicates []string                   `json:"duplicates,omitempty"`
}

// IsDuplicate 判断标识是否命中多条目录记录
func (s *EquipmentSnapshot) IsDuplicate(equipmentID string) bool {
	for _, id := range s.Duplicates {
		if id == equipmentID {
			return true
		}
	}
	return false
}
