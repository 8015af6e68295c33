package util

import (
	"strconv"
)

// ParsePositiveInt 章节/步骤ID等正整数参数
func ParsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// QueryInt 解析失败或非正数时使用默认值
func QueryInt(s string, def int) int {
	if n, ok := ParsePositiveInt(s); ok {
		return n
	}
	return def
}
