package db

import "time"

// 埋点事件类型。eventType 决定 metadata 的预期结构，
// 聚合层不依赖 metadata 中任何字段的存在。
const (
	EventTypePageView   = "PAGE_VIEW"
	EventTypeClick      = "CLICK"
	EventTypeFormSubmit = "FORM_SUBMIT"
)

// AnalyticsEvent 记录一次离散的用户行为，一行对应一个事件。
// ID 在写入时由采集端生成，CreatedAt 由服务端赋值。
type AnalyticsEvent struct {
	ID         string `gorm:"primaryKey;size:64"`
	EventType  string `gorm:"size:32;index"`
	Page       string `gorm:"size:512"`
	Referrer   string `gorm:"size:512"`
	UserAgent  string `gorm:"size:512"`
	DeviceType string `gorm:"size:16"`
	Browser    string `gorm:"size:32"`
	OS         string `gorm:"size:32"`
	SessionID  string `gorm:"size:64;index"`
	Metadata   string // JSON 字符串，结构随事件类型变化
	CreatedAt  time.Time `gorm:"index"`
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}

// AnalyticsSession 记录一次浏览会话，生命周期独立于事件。
// SessionID 唯一，同一会话内的多次浏览不会产生多行。
type AnalyticsSession struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"size:64;uniqueIndex"`
	StartedAt time.Time `gorm:"index"`
	Duration  int64     `gorm:"default:0"` // 秒数，0 表示尚未得知时长
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定自定义表名。
func (AnalyticsSession) TableName() string {
	return "analytics_sessions"
}
