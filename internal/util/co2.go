package util

import (
	"regexp"
	"strconv"
	"strings"
)

// co2Pattern 从 "1.2 кг CO₂" 这类自由文本中取出数值，小数点允许用逗号
var co2Pattern = regexp.MustCompile(`[-+]?\d+[.,]?\d*`)

// ParseCO2Value 解析 CO₂ 字符串中的数值，解析失败返回 false
func ParseCO2Value(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	match := co2Pattern.FindString(raw)
	if match == "" {
		return 0, false
	}
	normalized := strings.ReplaceAll(match, ",", ".")
	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
