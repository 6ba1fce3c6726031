package tracker

import "strings"

// 设备类型分类结果。
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

const unknownLabel = "unknown"

// classifyDevice 按捕获时的视口宽度归类设备，阈值固定：
// <768 为 mobile，<1024 为 tablet，其余为 desktop。
func classifyDevice(width int) string {
	switch {
	case width < 768:
		return DeviceMobile
	case width < 1024:
		return DeviceTablet
	default:
		return DeviceDesktop
	}
}

// uaRule 是一条 (判定, 标签) 规则。规则按序求值、先命中先得，
// 使优先级显式可见且可独立测试。
type uaRule struct {
	label string
	match func(ua string) bool
}

func uaContains(sub string) func(string) bool {
	return func(ua string) bool { return strings.Contains(ua, sub) }
}

// 浏览器判定顺序：Chrome（排除 Edge 标记）→ Firefox → Safari（排除
// Chrome 标记）→ Edge → Opera。纯启发式，不求权威，属接受的局限。
var browserRules = []uaRule{
	{"Chrome", func(ua string) bool {
		return strings.Contains(ua, "Chrome") && !strings.Contains(ua, "Edg")
	}},
	{"Firefox", uaContains("Firefox")},
	{"Safari", func(ua string) bool {
		return strings.Contains(ua, "Safari") && !strings.Contains(ua, "Chrome")
	}},
	{"Edge", uaContains("Edg")},
	{"Opera", func(ua string) bool {
		return strings.Contains(ua, "Opera") || strings.Contains(ua, "OPR")
	}},
}

// 操作系统判定顺序：Windows → macOS → Linux → Android → iOS。
var osRules = []uaRule{
	{"Windows", uaContains("Windows")},
	{"macOS", uaContains("Mac")},
	{"Linux", uaContains("Linux")},
	{"Android", uaContains("Android")},
	{"iOS", func(ua string) bool {
		return strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad")
	}},
}

func matchRules(rules []uaRule, ua string) string {
	for _, rule := range rules {
		if rule.match(ua) {
			return rule.label
		}
	}
	return unknownLabel
}

func detectBrowser(ua string) string { return matchRules(browserRules, ua) }

func detectOS(ua string) string { return matchRules(osRules, ua) }
