package util

import (
	"regexp"
	"strings"
)

// DefaultCategory 空白分类统一归入的桶
const DefaultCategory = "General"

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeCategory 折叠连续空白并去掉首尾空白，空字符串归入 General
func NormalizeCategory(raw string) string {
	normalized := strings.TrimSpace(spaceRun.ReplaceAllString(raw, " "))
	if normalized == "" {
		return DefaultCategory
	}
	return normalized
}

// SetEqual 判断两个字符串列表在集合意义上是否相等：
// 与顺序无关，与重复元素无关。
func SetEqual(a, b []string) bool {
	as := ToSet(a)
	bs := ToSet(b)
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

func ToSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	return set
}
