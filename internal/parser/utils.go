package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	punctRe = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeColumnName 规范化列名：小写、去首尾空白、去标点、压缩空格
// 精确匹配阶段在规范化后的文本上进行
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = punctRe.ReplaceAllString(name, " ")
	name = spaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// NormalizeFieldName 规范化规范字段名（下划线视作空格）
func NormalizeFieldName(name string) string {
	return NormalizeColumnName(strings.ReplaceAll(name, "_", " "))
}

// ParseQuantity 宽容地解析数量单元格
// 去除千分位逗号与货币符号；解析失败返回 ok=false
func ParseQuantity(value string) (float64, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimPrefix(v, "$")
	v = strings.TrimSpace(v)

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsPlaceholderPartCode 判断备件号是否为占位值（如 TBD）
func IsPlaceholderPartCode(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "TBD", "N/A", "NA":
		return true
	}
	return false
}
