package service

import (
	"database/sql"
	"math"
	"time"

	"github.com/assohub/internal/db"
	"gorm.io/gorm"
)

const (
	defaultReportWindow = 30 * 24 * time.Hour
	topEntryLimit       = 10
)

// SummaryQuery 描述一次统计查询：时间窗口（闭区间）与时间序列的分组粒度。
type SummaryQuery struct {
	Start   time.Time
	End     time.Time
	GroupBy string
}

// normalize 补全缺省值：窗口默认为截至当前的最近 30 天，粒度默认按天。
func (q SummaryQuery) normalize(now time.Time) SummaryQuery {
	if q.End.IsZero() {
		q.End = now
	}
	if q.Start.IsZero() {
		q.Start = now.Add(-defaultReportWindow)
	}
	if q.GroupBy == "" {
		q.GroupBy = GroupByDay
	}
	return q
}

// AnalyticsSummary 汇总窗口内的核心计数。
// TotalPageViews 按原始 PAGE_VIEW 行计数，不做去重：一次访问可能因
// 初始上报、兜底计时与卸载上报产生多行，这是采集端既定的口径。
type AnalyticsSummary struct {
	TotalPageViews     int64 `json:"totalPageViews"`
	UniqueVisitors     int64 `json:"uniqueVisitors"`
	FormSubmissions    int64 `json:"formSubmissions"`
	ClicksCount        int64 `json:"clicksCount"`
	AvgSessionDuration int64 `json:"avgSessionDuration"`
}

// PageCount 是页面维度的浏览计数。
type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// DimensionCount 是通用的按类别计数结果。
type DimensionCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TimePoint 是时间序列中的一个分桶。
type TimePoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// AnalyticsReport 是聚合接口的完整返回结构。
type AnalyticsReport struct {
	Summary             AnalyticsSummary `json:"summary"`
	PageViewsByPage     []PageCount      `json:"pageViewsByPage"`
	DeviceDistribution  []DimensionCount `json:"deviceDistribution"`
	BrowserDistribution []DimensionCount `json:"browserDistribution"`
	ReferrerSources     []DimensionCount `json:"referrerSources"`
	TimeSeries          []TimePoint      `json:"timeSeries"`
}

// AnalyticsService 负责统计数据的只读聚合，不修改任何存储。
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// eventsInRange 返回窗口内事件的基础查询。
func (s *AnalyticsService) eventsInRange(q SummaryQuery) *gorm.DB {
	return s.db.Model(&db.AnalyticsEvent{}).
		Where("created_at BETWEEN ? AND ?", q.Start, q.End)
}

// pageViewsInRange 返回窗口内 PAGE_VIEW 事件的基础查询。
func (s *AnalyticsService) pageViewsInRange(q SummaryQuery) *gorm.DB {
	return s.eventsInRange(q).Where("event_type = ?", db.EventTypePageView)
}

// Report 计算窗口内的统计汇总、维度分布与时间序列。
// 各查询相互独立且只读，调用之间不共享可变状态。
func (s *AnalyticsService) Report(q SummaryQuery) (*AnalyticsReport, error) {
	q = q.normalize(time.Now().UTC())

	bucketer, err := BucketerFor(q.GroupBy)
	if err != nil {
		return nil, err
	}

	report := &AnalyticsReport{}

	if err := s.pageViewsInRange(q).Count(&report.Summary.TotalPageViews).Error; err != nil {
		return nil, err
	}
	if err := s.eventsInRange(q).Where("event_type = ?", db.EventTypeClick).
		Count(&report.Summary.ClicksCount).Error; err != nil {
		return nil, err
	}
	if err := s.eventsInRange(q).Where("event_type = ?", db.EventTypeFormSubmit).
		Count(&report.Summary.FormSubmissions).Error; err != nil {
		return nil, err
	}

	// 以窗口内的会话数近似访客数：同一访客换了会话会被再次计入。
	if err := s.db.Model(&db.AnalyticsSession{}).
		Where("started_at BETWEEN ? AND ?", q.Start, q.End).
		Count(&report.Summary.UniqueVisitors).Error; err != nil {
		return nil, err
	}

	// 平均会话时长只统计 duration > 0 的会话，向下取整到秒；
	// 时长未知的会话不参与分子也不参与分母。
	var avg sql.NullFloat64
	if err := s.db.Model(&db.AnalyticsSession{}).
		Where("started_at BETWEEN ? AND ? AND duration > 0", q.Start, q.End).
		Select("AVG(duration)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg.Valid {
		report.Summary.AvgSessionDuration = int64(math.Floor(avg.Float64))
	}

	report.PageViewsByPage = make([]PageCount, 0, topEntryLimit)
	if err := s.pageViewsInRange(q).
		Select("page, COUNT(*) AS count").
		Group("page").
		Order("count DESC").
		Limit(topEntryLimit).
		Scan(&report.PageViewsByPage).Error; err != nil {
		return nil, err
	}

	if report.DeviceDistribution, err = s.groupPageViews(q, "device_type", 0); err != nil {
		return nil, err
	}
	if report.BrowserDistribution, err = s.groupPageViews(q, "browser", 0); err != nil {
		return nil, err
	}
	if report.ReferrerSources, err = s.groupPageViews(q, "referrer", topEntryLimit); err != nil {
		return nil, err
	}

	// 时间序列：取出窗口内全部 PAGE_VIEW 时间戳，在内存中分桶。
	var stamps []time.Time
	if err := s.pageViewsInRange(q).
		Order("created_at").
		Pluck("created_at", &stamps).Error; err != nil {
		return nil, err
	}
	report.TimeSeries = bucketCounts(stamps, bucketer)

	return report, nil
}

// groupPageViews 统计窗口内 PAGE_VIEW 在某一维度上的分布，
// 缺失的维度值直接排除而不是报错。limit 为 0 时不限制条数。
func (s *AnalyticsService) groupPageViews(q SummaryQuery, column string, limit int) ([]DimensionCount, error) {
	out := make([]DimensionCount, 0)

	query := s.pageViewsInRange(q).
		Where(column+" <> ''").
		Select(column + " AS name, COUNT(*) AS count").
		Group(column)
	if limit > 0 {
		query = query.Order("count DESC").Limit(limit)
	}

	if err := query.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
