package clover

import "strings"

// Stats 单次 Collect 的统计
type Stats struct {
	Total          int      // metrics elements > 0 的文件数
	Unmatched      int      // 无法匹配项目文件的数量
	UnmatchedPaths []string // 无法匹配的报告路径
	Saved          int      // 写入 Sink 的文件数
}

func (s *Stats) unmatched(path string) {
	s.Unmatched++
	s.UnmatchedPaths = append(s.UnmatchedPaths, path)
}

// MatchedPercent 整数除法，截断；没有文件时 ok 为 false
func (s Stats) MatchedPercent() (percent int, ok bool) {
	if s.Total == 0 {
		return 0, false
	}
	return (s.Total - s.Unmatched) * 100 / s.Total, true
}

func (s Stats) UnmatchedList() string {
	return strings.Join(s.UnmatchedPaths, ", ")
}
