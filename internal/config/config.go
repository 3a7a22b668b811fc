package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Schema SchemaConfig `toml:"schema"`
	Policy PolicyConfig `toml:"policy"`
	Output OutputConfig `toml:"output"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBPath  string `toml:"db_path"` // 设备目录数据库路径，空表示 data_dir/equipment.db
}

// FieldConfig 规范字段定义
// Fields 的声明顺序即歧义平票时的优先顺序
type FieldConfig struct {
	Name     string   `toml:"name"`
	Synonyms []string `toml:"synonyms"`
	Required bool     `toml:"required"`
}

// SchemaConfig 规范列模式（显式、带版本的同义词配置）
type SchemaConfig struct {
	Version        int           `toml:"version"`
	FuzzyThreshold float64       `toml:"fuzzy_threshold"` // 相似度阈值 0-1
	Fields         []FieldConfig `toml:"fields"`
}

// FieldByName 按名称查找字段定义
func (s *SchemaConfig) FieldByName(name string) (FieldConfig, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldConfig{}, false
}

// LadderBand 台数阶梯档位：台数小于 MaxCount 时乘以 Factor
type LadderBand struct {
	MaxCount int     `toml:"max_count"`
	Factor   float64 `toml:"factor"`
}

// PolicyConfig 备件数量策略
type PolicyConfig struct {
	GlobalSpareRatio float64            `toml:"global_spare_ratio"` // 全局备件系数
	PartRatios       map[string]float64 `toml:"part_ratios"`        // 按备件号覆盖
	GlobalMinimum    int                `toml:"global_minimum"`     // 最低备货数
	MaximumCap       int                `toml:"maximum_cap"`        // 上限，0 表示不设
	AllowShrink      bool               `toml:"allow_shrink"`       // 允许推荐数低于现有库存
	UseScaleLadder   bool               `toml:"use_scale_ladder"`   // 启用台数阶梯乘数
	Ladder           []LadderBand       `toml:"ladder"`
	LadderMaxFactor  float64            `toml:"ladder_max_factor"` // 超出最高档位时的乘数
}

// SpareRatio 取备件系数（按备件号覆盖，否则用全局）
func (p *PolicyConfig) SpareRatio(partCode string) float64 {
	if r, ok := p.PartRatios[partCode]; ok {
		return r
	}
	return p.GlobalSpareRatio
}

// 分组排序策略
const (
	GroupOrderFirstSeen    = "first_seen"
	GroupOrderPriority     = "priority"
	GroupOrderAlphabetical = "alphabetical"
)

// OutputConfig 输出分组配置
type OutputConfig struct {
	GroupOrder string   `toml:"group_order"` // first_seen/priority/alphabetical
	Priority   []string `toml:"priority"`    // group_order=priority 时的类型顺序
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20318,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Schema: SchemaConfig{
			Version:        1,
			FuzzyThreshold: 0.6,
			Fields: []FieldConfig{
				{
					Name:     "equipment_id",
					Synonyms: []string{"serial", "serial number", "serial no", "sn", "equipment id", "machine id"},
					Required: true,
				},
				{
					Name:     "quantity_on_hand",
					Synonyms: []string{"total qty", "qty on hand", "quantity on hand", "total quantity", "qty", "on hand"},
					Required: true,
				},
				{
					Name:     "spare_quantity",
					Synonyms: []string{"spare qty", "spare quantity", "spares", "qty spare"},
					Required: true,
				},
				{
					Name:     "part_code",
					Synonyms: []string{"item no", "item no.", "item number", "part no", "part number", "part code"},
					Required: true,
				},
				{
					Name:     "part_description",
					Synonyms: []string{"description", "part description", "item description", "desc"},
					Required: true,
				},
				{
					Name:     "unit_price",
					Synonyms: []string{"unit price", "unit price ($)", "price", "unit cost"},
					Required: false,
				},
			},
		},
		Policy: PolicyConfig{
			GlobalSpareRatio: 0.15,
			PartRatios:       map[string]float64{},
			GlobalMinimum:    1,
			MaximumCap:       0,
			AllowShrink:      false,
			UseScaleLadder:   false,
			Ladder: []LadderBand{
				{MaxCount: 5, Factor: 1.0},
				{MaxCount: 10, Factor: 1.25},
				{MaxCount: 15, Factor: 1.5},
				{MaxCount: 20, Factor: 1.75},
			},
			LadderMaxFactor: 2.0,
		},
		Output: OutputConfig{
			GroupOrder: GroupOrderFirstSeen,
			Priority:   []string{},
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下；不存在时使用默认配置
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides 环境变量覆盖（用于 E2E / 本地运行）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("REORG_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("REORG_DB_PATH"); v != "" {
		config.Data.DBPath = v
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DBPath 设备目录数据库路径
func DBPath(config *AppConfig, dataDir string) string {
	if config.Data.DBPath != "" {
		return config.Data.DBPath
	}
	return filepath.Join(dataDir, "equipment.db")
}
