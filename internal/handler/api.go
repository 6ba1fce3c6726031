package handler

import (
	"github.com/assohub/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// analyticsProvider 抽象统计聚合服务，便于在测试中替换实现。
type analyticsProvider interface {
	Report(q service.SummaryQuery) (*service.AnalyticsReport, error)
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	analytics analyticsProvider
	log       logrus.FieldLogger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB) *API {
	return &API{
		db:        gdb,
		analytics: service.NewAnalyticsService(gdb),
		log:       logrus.StandardLogger(),
	}
}
