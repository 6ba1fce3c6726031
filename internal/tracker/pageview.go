package tracker

import (
	"sync"
	"time"
)

// PageView 持有单次页面浏览的计时状态。状态归属于每次挂载创建的
// 控制器实例而非包级变量，多实例并存时互不干扰。
type PageView struct {
	tracker *Tracker
	page    Page
	start   time.Time
	timer   *time.Timer

	mu   sync.Mutex
	done bool
}

// StartPageView 记录浏览起点并立即上报一条不带时长的 PAGE_VIEW，
// 同时注册兜底计时：单页应用路由切换时 beforeunload 可能不会触发，
// 计时到点后先行上报一条带时长的事件。
func (t *Tracker) StartPageView(page Page) *PageView {
	pv := &PageView{tracker: t, page: page, start: t.now()}
	t.Track(page, EventPageView, nil)
	pv.timer = time.AfterFunc(t.checkpointInterval, pv.checkpoint)
	return pv
}

// elapsedSeconds 返回从浏览起点到当前经过的整秒数。
func (pv *PageView) elapsedSeconds() int64 {
	return int64(pv.tracker.now().Sub(pv.start).Seconds())
}

// emitDuration 上报一条携带 duration 的 PAGE_VIEW。
// 兜底计时与卸载回调可能各自触发，两者都允许上报，
// 因此一次访问可能产生 2-3 行 PAGE_VIEW，聚合端按原始行计数。
func (pv *PageView) emitDuration() {
	pv.tracker.Track(pv.page, EventPageView, map[string]any{
		"duration": pv.elapsedSeconds(),
	})
}

// checkpoint 是兜底计时的回调，卸载后不再触发。
func (pv *PageView) checkpoint() {
	pv.mu.Lock()
	if pv.done {
		pv.mu.Unlock()
		return
	}
	pv.mu.Unlock()

	pv.emitDuration()
}

// Unload 对应页面即将卸载（beforeunload）：上报截至当前的时长。
func (pv *PageView) Unload() {
	pv.emitDuration()
}

// Teardown 对应路由切换时的组件卸载：停止计时并上报最终时长。
func (pv *PageView) Teardown() {
	pv.mu.Lock()
	if pv.done {
		pv.mu.Unlock()
		return
	}
	pv.done = true
	pv.mu.Unlock()

	pv.timer.Stop()
	pv.emitDuration()
}
