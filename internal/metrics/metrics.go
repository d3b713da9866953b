package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 排课相关的 Prometheus 指标
// nil 接收者上的方法均为空操作，测试与 CLI 可直接传 nil
type Metrics struct {
	generations      *prometheus.CounterVec
	generateDuration prometheus.Histogram
	filledSlots      prometheus.Histogram
	rejections       *prometheus.CounterVec
	exports          *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default 注册到全局 Registry 的单例
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNewMetrics(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNewMetrics 在 reg 上注册全部指标，重复注册时 panic
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schedule_planner",
			Subsystem: "planner",
			Name:      "generations_total",
			Help:      "Number of schedule generations by outcome.",
		}, []string{"status"}),
		generateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "schedule_planner",
			Subsystem: "planner",
			Name:      "generate_duration_seconds",
			Help:      "Time spent assembling and persisting one schedule.",
			Buckets:   prometheus.DefBuckets,
		}),
		filledSlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "schedule_planner",
			Subsystem: "planner",
			Name:      "filled_slots",
			Help:      "Number of non-empty slots per generated schedule.",
			Buckets:   prometheus.LinearBuckets(0, 5, 6),
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schedule_planner",
			Subsystem: "preferences",
			Name:      "rejections_total",
			Help:      "Preference changes rejected by validation.",
		}, []string{"reason"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schedule_planner",
			Subsystem: "export",
			Name:      "files_total",
			Help:      "Exported schedule files by format.",
		}, []string{"format"}),
	}
	reg.MustRegister(m.generations, m.generateDuration, m.filledSlots, m.rejections, m.exports)
	return m
}

// ObserveGeneration 记录一次生成
func (m *Metrics) ObserveGeneration(status string, filled int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(status).Inc()
	if status == StatusOK {
		m.generateDuration.Observe(elapsed.Seconds())
		m.filledSlots.Observe(float64(filled))
	}
}

// IncRejection 偏好校验拒绝
func (m *Metrics) IncRejection(reason string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// IncExport 导出文件
func (m *Metrics) IncExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

// 标签取值
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusError    = "error"

	ReasonTooMany = "too_many"
	ReasonInvalid = "invalid"

	FormatXLSX = "xlsx"
	FormatICS  = "ics"
)
