// Package match 提供推荐匹配中统一的字符串匹配工具。
// 偏好标签、国家、关键词等匹配都走这里，避免各因子实现之间的口径漂移。
package match

import "strings"

// ContainsFold 判断 a 与 b 是否双向子串匹配（大小写不敏感）。
// 例如 "Vietnam" 与 "vietnam tours" 匹配，"beach" 与 "Beaches" 匹配。
// 任一为空串时返回 false（空串不构成有效匹配）。
func ContainsFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// EqualFold 判断两个字符串是否相等（大小写不敏感，去除首尾空白）。
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// AnyFold 判断 s 是否与 candidates 中任意一个双向子串匹配。
func AnyFold(s string, candidates []string) bool {
	for _, c := range candidates {
		if ContainsFold(s, c) {
			return true
		}
	}
	return false
}

// OverlapRatio 计算 want 中与 have 任意元素双向子串匹配的比例。
// 分母为 len(want)，并且下限为 1，避免除零。
func OverlapRatio(want, have []string) float64 {
	if len(want) == 0 {
		return 0
	}
	hit := 0
	for _, w := range want {
		if AnyFold(w, have) {
			hit++
		}
	}
	return float64(hit) / float64(len(want))
}
