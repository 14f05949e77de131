package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildit",
			Subsystem: "pdf",
			Name:      "render_duration_seconds",
			Help:      "PDF 渲染耗时分布（秒）。",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"engine"},
	)

	renderFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildit",
			Subsystem: "pdf",
			Name:      "render_failed_total",
			Help:      "PDF 渲染失败总数。",
		},
		[]string{"engine"},
	)

	renderInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "buildit",
			Subsystem: "pdf",
			Name:      "renders_in_progress",
			Help:      "当前正在进行的 PDF 渲染数量。",
		},
		[]string{"engine"},
	)

	aiCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildit",
			Subsystem: "ai",
			Name:      "calls_total",
			Help:      "AI 调用总数，按操作与结果区分。",
		},
		[]string{"operation", "outcome"},
	)
)

// TrackRender 记录一次 PDF 渲染，返回的函数需在渲染结束时调用。
func TrackRender(engine string) func(err error) {
	start := time.Now()
	renderInProgress.WithLabelValues(engine).Inc()

	return func(err error) {
		renderInProgress.WithLabelValues(engine).Dec()
		renderDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
		if err != nil {
			renderFailedTotal.WithLabelValues(engine).Inc()
		}
	}
}

// AICall 记录一次 AI 调用的结果，outcome 例如 ok、error、parse_error。
func AICall(operation, outcome string) {
	aiCallsTotal.WithLabelValues(operation, outcome).Inc()
}
