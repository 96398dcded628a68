package def

import (
	"sort"
	"strconv"
	"strings"
)

// InputFile 报告路径解析后的项目文件
type InputFile struct {
	Key     string // 相对项目目录的路径
	AbsPath string
}

// CoverageFmt 文件 -> 覆盖率指标
type CoverageFmt map[string]*FileMeasures

// Keys 排序后的文件列表
func (c CoverageFmt) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type FileMeasures struct {
	Path                string    `json:"path" yaml:"path" msgpack:"path"`
	AbsPath             string    `json:"abs_path,omitempty" yaml:"abs_path,omitempty" msgpack:"abs_path,omitempty"`
	LinesToCover        int       `json:"lines_to_cover" yaml:"lines_to_cover" msgpack:"lines_to_cover"`
	UncoveredLines      int       `json:"uncovered_lines" yaml:"uncovered_lines" msgpack:"uncovered_lines"`
	ConditionsToCover   int       `json:"conditions_to_cover" yaml:"conditions_to_cover" msgpack:"conditions_to_cover"`
	UncoveredConditions int       `json:"uncovered_conditions" yaml:"uncovered_conditions" msgpack:"uncovered_conditions"`
	Lines               []LineHit `json:"lines" yaml:"lines" msgpack:"lines"`
}

// LineHit 单行指标，Conditions 为 0 表示语句行
type LineHit struct {
	Line              int `json:"line" yaml:"line" msgpack:"line"`
	Hits              int `json:"hits" yaml:"hits" msgpack:"hits"`
	Conditions        int `json:"conditions,omitempty" yaml:"conditions,omitempty" msgpack:"conditions,omitempty"`
	CoveredConditions int `json:"covered_conditions,omitempty" yaml:"covered_conditions,omitempty" msgpack:"covered_conditions,omitempty"`
}

// HitsData 形如 4=1;5=0;6=1
func (m *FileMeasures) HitsData() string {
	return m.data(func(l LineHit) (int, bool) { return l.Hits, true })
}

// ConditionsData 形如 6=2
func (m *FileMeasures) ConditionsData() string {
	return m.data(func(l LineHit) (int, bool) { return l.Conditions, l.Conditions > 0 })
}

// CoveredConditionsData 形如 6=1
func (m *FileMeasures) CoveredConditionsData() string {
	return m.data(func(l LineHit) (int, bool) { return l.CoveredConditions, l.Conditions > 0 })
}

// UncoveredLineNumbers 未覆盖的行号
func (m *FileMeasures) UncoveredLineNumbers() []int {
	var out []int
	for _, l := range m.Lines {
		if l.Hits == 0 {
			out = append(out, l.Line)
		}
	}
	return out
}

func (m *FileMeasures) data(value func(LineHit) (int, bool)) string {
	var sb strings.Builder
	for _, l := range m.Lines {
		v, ok := value(l)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strconv.Itoa(l.Line))
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}
