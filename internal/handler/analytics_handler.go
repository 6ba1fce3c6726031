package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/assohub/internal/db"
	"github.com/assohub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"
)

// dateLayout 是统计接口查询参数使用的 ISO 日期格式。
const dateLayout = "2006-01-02"

// trackRequest 是采集接口的请求载荷，字段与前端埋点 SDK 约定一致。
type trackRequest struct {
	EventType  string         `json:"eventType" binding:"required"`
	Page       string         `json:"page"`
	Referrer   string         `json:"referrer"`
	UserAgent  string         `json:"userAgent"`
	DeviceType string         `json:"deviceType"`
	Browser    string         `json:"browser"`
	OS         string         `json:"os"`
	SessionID  string         `json:"sessionId" binding:"required"`
	Metadata   map[string]any `json:"metadata"`
}

var validEventTypes = map[string]bool{
	db.EventTypePageView:   true,
	db.EventTypeClick:      true,
	db.EventTypeFormSubmit: true,
}

// TrackEvent 采集一条埋点事件：写入事件行并按 sessionId 补齐会话行。
// 事件 ID 与时间戳均在写入时由服务端赋值。
func (a *API) TrackEvent(c *gin.Context) {
	var req trackRequest
	if !bindJSON(c, &req, "无效的埋点参数") {
		return
	}
	if !validEventTypes[req.EventType] {
		respondError(c, http.StatusBadRequest, "未知的事件类型")
		return
	}

	metadata := ""
	if len(req.Metadata) > 0 {
		if raw, err := json.Marshal(req.Metadata); err == nil {
			metadata = string(raw)
		}
	}

	now := time.Now().UTC()
	event := db.AnalyticsEvent{
		ID:         uuid.NewString(),
		EventType:  req.EventType,
		Page:       req.Page,
		Referrer:   req.Referrer,
		UserAgent:  req.UserAgent,
		DeviceType: req.DeviceType,
		Browser:    req.Browser,
		OS:         req.OS,
		SessionID:  req.SessionID,
		Metadata:   metadata,
		CreatedAt:  now,
	}

	if err := a.db.Create(&event).Error; err != nil {
		a.log.WithError(err).Error("埋点事件写入失败")
		respondError(c, http.StatusInternalServerError, "事件写入失败")
		return
	}

	if err := a.upsertSession(req, now); err != nil {
		a.log.WithError(err).WithField("sessionId", req.SessionID).Error("会话更新失败")
		respondError(c, http.StatusInternalServerError, "会话更新失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": event.ID})
}

// upsertSession 确保会话行存在（同一 sessionId 只有一行），
// 并在 PAGE_VIEW 带来更长的时长时延长已记录的值。
func (a *API) upsertSession(req trackRequest, now time.Time) error {
	session := db.AnalyticsSession{SessionID: req.SessionID, StartedAt: now}
	if err := a.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(&session).Error; err != nil {
		return err
	}

	if req.EventType != db.EventTypePageView {
		return nil
	}

	duration := metadataDuration(req.Metadata)
	if duration <= 0 {
		return nil
	}

	return a.db.Model(&db.AnalyticsSession{}).
		Where("session_id = ? AND duration < ?", req.SessionID, duration).
		Update("duration", duration).Error
}

// metadataDuration 宽容地读取 metadata.duration：缺失或类型不符按 0 处理。
func metadataDuration(meta map[string]any) int64 {
	switch v := meta["duration"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

// GetAnalytics 返回统计面板数据。身份与权限校验由路由中间件在
// 任何查询执行之前完成，这里只处理参数与聚合本身。
func (a *API) GetAnalytics(c *gin.Context) {
	query := service.SummaryQuery{GroupBy: c.DefaultQuery("groupBy", service.GroupByDay)}
	if !service.IsValidGroupBy(query.GroupBy) {
		respondError(c, http.StatusBadRequest, "无效的分组粒度")
		return
	}

	if raw := strings.TrimSpace(c.Query("startDate")); raw != "" {
		start, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的开始日期")
			return
		}
		query.Start = start
	}

	if raw := strings.TrimSpace(c.Query("endDate")); raw != "" {
		end, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的结束日期")
			return
		}
		// 结束日期按整天计入
		query.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	report, err := a.analytics.Report(query)
	if err != nil {
		a.log.WithError(err).WithFields(logrus.Fields{
			"startDate": c.Query("startDate"),
			"endDate":   c.Query("endDate"),
			"groupBy":   query.GroupBy,
		}).Error("统计数据聚合失败")
		respondError(c, http.StatusInternalServerError, "统计数据获取失败")
		return
	}

	c.JSON(http.StatusOK, report)
}
