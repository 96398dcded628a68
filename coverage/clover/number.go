package clover

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

var (
	numberPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	numberFull   = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
)

// cleanNumber 去掉首尾空白和千分位逗号
func cleanNumber(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// parseNumber 宽松解析，只要求以数字开头，忽略后面的内容
func parseNumber(s string) (float64, error) {
	m := numberPrefix.FindString(cleanNumber(s))
	if m == "" {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return strconv.ParseFloat(m, 64)
}

// parseInteger 必填字段：整个值必须是整数
func parseInteger(attr, s string) (int, error) {
	v := cleanNumber(s)
	if !numberFull.MatchString(v) {
		return 0, fmt.Errorf("attribute %s: invalid integer %q", attr, s)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", attr, err)
	}
	n, err := safecast.Convert[int](f)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %q: %w", attr, s, err)
	}
	return n, nil
}

// optionalCount truecount / falsecount，缺失或无法解析按 0 处理
func optionalCount(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	f, err := parseNumber(s)
	if err != nil {
		return 0
	}
	n, err := safecast.Convert[int](math.Trunc(f))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
