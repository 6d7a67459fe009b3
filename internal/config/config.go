package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName 配置文件名（位于可执行文件同目录）
const DefaultFileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server    ServerConfig    `toml:"server"`
	Data      DataConfig      `toml:"data"`
	Reference ReferenceConfig `toml:"reference"`
	Budget    BudgetConfig    `toml:"budget"`
	Report    ReportConfig    `toml:"report"`
	Presets   PresetsConfig   `toml:"presets"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir    string `toml:"data_dir"`
	ReportsDir string `toml:"reports_dir"` // 相对 data_dir
	DBFile     string `toml:"db_file"`     // 相对 data_dir
}

// ReferenceConfig 参考表位置
type ReferenceConfig struct {
	InstrumentFile  string `toml:"instrument_file"`
	InstrumentSheet string `toml:"instrument_sheet"` // 为空时使用活动工作表
	ParameterFile   string `toml:"parameter_file"`
	// Parameters 受支持的参数（按顺序），Sheet 为空时使用活动工作表
	Parameters []ParameterConfig `toml:"parameters"`
}

// ParameterConfig 一个受支持的测量参数
type ParameterConfig struct {
	Name  string `toml:"name"`
	Sheet string `toml:"sheet"`
}

// BudgetConfig 不确定度计算配置
type BudgetConfig struct {
	SampleCount int `toml:"sample_count"`
}

// ReportConfig 报告排版
type ReportConfig struct {
	Extension   string  `toml:"extension"`
	HeadingFont string  `toml:"heading_font"`
	TextFont    string  `toml:"text_font"`
	TextSize    float64 `toml:"text_size"`
	SpaceAfter  float64 `toml:"space_after"`
}

// PresetsConfig 页面下拉选项
type PresetsConfig struct {
	Instruments []string `toml:"instruments"`
	Parameters  []string `toml:"parameters"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"` // debug / info / warn / error
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			DBFile:     "calibreport.db",
		},
		Reference: ReferenceConfig{
			InstrumentFile: "仪器.xlsx",
			ParameterFile:  "测量参数库.xlsx",
			Parameters: []ParameterConfig{
				{Name: "分度误差"},
			},
		},
		Budget: BudgetConfig{
			SampleCount: 20,
		},
		Report: ReportConfig{
			Extension:   "xlsx",
			HeadingFont: "黑体",
			TextFont:    "宋体",
			TextSize:    12,
			SpaceAfter:  12,
		},
		Presets: PresetsConfig{
			Instruments: []string{"光电轴角编码器", "角度仪"},
			Parameters:  []string{"分度误差", "灵敏度"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, DefaultFileName)
}

// LoadConfigWithInfo 从 path 加载配置（path 为空时使用默认路径）并返回元信息
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)

		// [[reference.parameters]] 追加到切片上，先清空默认值
		defaults := config.Reference.Parameters
		config.Reference.Parameters = nil
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(config.Reference.Parameters) == 0 {
			config.Reference.Parameters = defaults
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// 环境变量覆盖（用于本地运行）
	if v := os.Getenv("CALIBREPORT_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("CALIBREPORT_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate 检查配置取值
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Budget.SampleCount <= 0 {
		return fmt.Errorf("budget.sample_count must be positive: %d", c.Budget.SampleCount)
	}
	if c.Reference.InstrumentFile == "" {
		return fmt.Errorf("reference.instrument_file is required")
	}
	seen := make(map[string]bool, len(c.Reference.Parameters))
	for _, p := range c.Reference.Parameters {
		if p.Name == "" {
			return fmt.Errorf("reference.parameters: name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("reference.parameters: duplicate %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// ResolveDataDir 数据目录绝对路径；相对路径以可执行文件目录为基准
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录与报告目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	if err := os.MkdirAll(ReportsPath(config, dataDir), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// ReportsPath 报告目录
func ReportsPath(config *AppConfig, dataDir string) string {
	return resolveIn(dataDir, config.Data.ReportsDir)
}

// DBPath SQLite 文件路径
func DBPath(config *AppConfig, dataDir string) string {
	return resolveIn(dataDir, config.Data.DBFile)
}

// ReferencePath 参考表路径（相对数据目录）
func ReferencePath(dataDir, file string) string {
	return resolveIn(dataDir, file)
}

func resolveIn(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
