package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	unmatchedRoute = "unmatched"
	metricsRoute   = "/metrics"
)

var (
	registerOnce sync.Once

	// PDF 导出与 AI 调用常在数秒到一分钟之间，桶上限按渲染超时设置。
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP 请求耗时分布（秒），按路由模板与状态码类别区分。",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"route", "class"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "buildit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP 请求总数。",
		},
		[]string{"route", "method", "class"},
	)

	// 响应体从几百字节的 JSON 到数 MB 的 PDF。
	responseSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "buildit",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP 响应体大小分布（字节）。",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 9),
		},
		[]string{"route"},
	)

	requestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "buildit",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "当前正在处理的 HTTP 请求数量。",
		},
	)
)

// GinMiddleware 采集 HTTP 指标。路由以模板（如 /v1/resume/:email）作标签，
// 未匹配的路径统一记为 unmatched，邮箱不会出现在标签里；/metrics 自身的抓取不计入。
func GinMiddleware() gin.HandlerFunc {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, responseSize, requestsInFlight)
	})

	return func(c *gin.Context) {
		if c.FullPath() == metricsRoute {
			c.Next()
			return
		}

		start := time.Now()
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		class := statusClass(c.Writer.Status())

		requestDuration.WithLabelValues(route, class).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(route, c.Request.Method, class).Inc()
		if size := c.Writer.Size(); size > 0 {
			responseSize.WithLabelValues(route).Observe(float64(size))
		}
	}
}

// statusClass 把状态码折叠为 2xx、4xx 之类的类别。
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
