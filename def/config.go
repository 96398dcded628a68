package def

import (
	"os"

	"github.com/jinzhu/configor"
)

type Config struct {
	Path           string   `json:"path" yaml:"path" default:"."`                                 // 项目所在的目录
	CoveragePath   string   `json:"coverage_path" yaml:"coverage_path" env:"CLOVER_REPORT_PATH"` // clover.xml 路径，相对 Path
	CoveragePrefix string   `json:"coverage_prefix" yaml:"coverage_prefix"`                       // 报告中文件路径需要去掉的前缀
	Languages      []string `json:"languages" yaml:"languages"`                                   // 参与匹配的语言 java / grvy
	UnitExclude    []string `json:"unit_exclude" yaml:"unit_exclude"`                             // 需要排除的文件，正则
	DBPath         string   `json:"db_path" yaml:"db_path" default:"clover.db"`                   // 覆盖率数据库
	ShowDetail     bool     `json:"show_detail" yaml:"show_detail"`                               // 是否需要展示未覆盖代码的明细
}

// DefaultLanguages 未配置语言时使用
var DefaultLanguages = []string{"java", "grvy"}

// LoadConfig 读取配置文件，文件不存在时只使用默认值和环境变量
func LoadConfig(files ...string) (Config, error) {
	var existing []string
	for _, f := range files {
		if info, err := os.Stat(f); err == nil && !info.IsDir() {
			existing = append(existing, f)
		}
	}
	config := Config{}
	err := configor.New(&configor.Config{ENVPrefix: "CLOVER"}).Load(&config, existing...)
	if err != nil {
		return config, err
	}
	if len(config.Languages) == 0 {
		config.Languages = append([]string(nil), DefaultLanguages...)
	}
	return config, nil
}
