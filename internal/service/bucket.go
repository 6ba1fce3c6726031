package service

import (
	"fmt"
	"sort"
	"time"
)

// 时间序列的分组粒度。
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// TimeBucketer 把时间戳映射到分桶键。键格式保证按字典序排序即为时间序，
// 后续可以换成存储层的原生聚合而不改变聚合契约。
type TimeBucketer interface {
	Key(t time.Time) string
}

type dayBucketer struct{}

// Key 取 UTC 日期部分作为桶键。
func (dayBucketer) Key(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// weekBucketer 以周日作为一周起点：星期序号即需要回退的天数。
type weekBucketer struct{}

func (weekBucketer) Key(t time.Time) string {
	d := t.UTC()
	d = d.AddDate(0, 0, -int(d.Weekday()))
	return d.Format("2006-01-02")
}

type monthBucketer struct{}

func (monthBucketer) Key(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// BucketerFor 返回粒度对应的分桶策略，粒度未知时报错。
func BucketerFor(groupBy string) (TimeBucketer, error) {
	switch groupBy {
	case GroupByDay:
		return dayBucketer{}, nil
	case GroupByWeek:
		return weekBucketer{}, nil
	case GroupByMonth:
		return monthBucketer{}, nil
	default:
		return nil, fmt.Errorf("unsupported groupBy: %q", groupBy)
	}
}

// IsValidGroupBy 判断粒度取值是否受支持。
func IsValidGroupBy(groupBy string) bool {
	_, err := BucketerFor(groupBy)
	return err == nil
}

// bucketCounts 在内存中按分桶键累计计数，并按键升序输出。
// 全量加载换来了跨存储引擎的可移植性，在协会站点的流量规模下可以接受；
// 事件量显著增长后应下推到存储层聚合。
func bucketCounts(stamps []time.Time, bucketer TimeBucketer) []TimePoint {
	counts := make(map[string]int64, len(stamps))
	for _, ts := range stamps {
		counts[bucketer.Key(ts)]++
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	series := make([]TimePoint, 0, len(keys))
	for _, key := range keys {
		series = append(series, TimePoint{Date: key, Count: counts[key]})
	}
	return series
}
