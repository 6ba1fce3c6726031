package tracker

import "strings"

// Instrumentation 将页面浏览、点击与表单三类跟踪绑定到一次挂载。
// 页面浏览状态按路由独立，点击与表单监听对应文档级的捕获阶段回调，
// 路由切换时重复绑定是无害的。
type Instrumentation struct {
	tracker *Tracker
	page    Page
	view    *PageView
}

// Mount 在路由切换时安装全部跟踪器。
func (t *Tracker) Mount(page Page) *Instrumentation {
	return &Instrumentation{
		tracker: t,
		page:    page,
		view:    t.StartPageView(page),
	}
}

// HandleClick 处理文档级捕获阶段的点击：从事件目标向上找最近的
// 按钮、链接或按钮角色元素，找不到则忽略本次点击。
// 捕获阶段保证即使下游处理器阻止了冒泡，跟踪依然生效。
func (i *Instrumentation) HandleClick(target *Element) {
	el := findClickTarget(target)
	if el == nil {
		return
	}

	meta := map[string]any{
		"element":   strings.ToLower(el.Tag),
		"text":      clickText(el.Text),
		"id":        el.ID,
		"className": el.Class,
	}
	if strings.EqualFold(el.Tag, "a") && el.Href != "" {
		meta["href"] = linkPath(el.Href)
	}

	i.tracker.Track(i.page, EventClick, meta)
}

// HandleSubmit 处理文档级捕获阶段的表单提交。
func (i *Instrumentation) HandleSubmit(form Form) {
	i.tracker.Track(i.page, EventFormSubmit, map[string]any{
		"formId":     form.ID,
		"formAction": linkPath(form.Action),
		"formMethod": form.method(),
	})
}

// Unload 转发页面卸载信号。
func (i *Instrumentation) Unload() {
	i.view.Unload()
}

// Unmount 在路由切换时卸载：取消计时并上报最终时长。
func (i *Instrumentation) Unmount() {
	i.view.Teardown()
}
