package tracker

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// clickTextLimit 限制上报的可见文本长度。
const clickTextLimit = 100

// textPolicy 去除捕获文本中残留的任何标记。
var textPolicy = bluemonday.StrictPolicy()

// Element 是捕获到的页面元素快照，Parent 指向其祖先链。
type Element struct {
	Tag    string
	Role   string
	ID     string
	Class  string
	Text   string
	Href   string
	Parent *Element
}

// clickable 判断元素本身是否为可跟踪的点击目标：按钮、链接或显式按钮角色。
func (e *Element) clickable() bool {
	switch strings.ToLower(e.Tag) {
	case "button", "a":
		return true
	}
	return e.Role == "button"
}

// findClickTarget 从事件目标沿祖先链向上查找最近的可点击元素，找不到返回 nil。
func findClickTarget(el *Element) *Element {
	for cur := el; cur != nil; cur = cur.Parent {
		if cur.clickable() {
			return cur
		}
	}
	return nil
}

// clickText 去除标记、裁剪空白后截断到 100 个字符。
func clickText(raw string) string {
	text := strings.TrimSpace(textPolicy.Sanitize(raw))
	runes := []rune(text)
	if len(runes) > clickTextLimit {
		return string(runes[:clickTextLimit])
	}
	return text
}

// linkPath 只保留链接的路径部分，去掉源与查询串；解析失败时原样返回。
func linkPath(href string) string {
	trimmed := strings.TrimSpace(href)
	u, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// Form 是捕获到的表单快照。
type Form struct {
	ID     string
	Action string
	Method string
}

// method 返回规范化的提交方法，未指定时默认 POST。
func (f Form) method() string {
	m := strings.ToUpper(strings.TrimSpace(f.Method))
	if m == "" {
		return "POST"
	}
	return m
}
