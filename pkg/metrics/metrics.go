package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector 服务端指标。方法对 nil 接收者安全，未启用指标时可以直接传 nil
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	likeTogglesTotal *prometheus.CounterVec
	commentsTotal    *prometheus.CounterVec
	uploadsTotal     *prometheus.CounterVec
}

// NewCollector 在 reg 上注册全部指标
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		cacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_prefix"},
		),
		cacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_prefix"},
		),
		likeTogglesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_like_toggles_total",
				Help: "Like toggles by target type and resulting state",
			},
			[]string{"target", "state"},
		),
		commentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_comments_total",
				Help: "Comments created, split into top-level comments and replies",
			},
			[]string{"kind"},
		),
		uploadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "asset_uploads_total",
				Help: "Asset uploads by storage backend and result",
			},
			[]string{"backend", "result"},
		),
	}
}

// RecordHTTPRequest 记录一次请求
func (m *Collector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCache 记录缓存命中情况
func (m *Collector) RecordCache(keyPrefix string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHitsTotal.WithLabelValues(keyPrefix).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(keyPrefix).Inc()
	}
}

// RecordLikeToggle target 为 post 或 comment
func (m *Collector) RecordLikeToggle(target string, liked bool) {
	if m == nil {
		return
	}
	state := "unliked"
	if liked {
		state = "liked"
	}
	m.likeTogglesTotal.WithLabelValues(target, state).Inc()
}

// RecordComment reply 为 true 表示回复
func (m *Collector) RecordComment(reply bool) {
	if m == nil {
		return
	}
	kind := "comment"
	if reply {
		kind = "reply"
	}
	m.commentsTotal.WithLabelValues(kind).Inc()
}

// RecordUpload 记录上传结果
func (m *Collector) RecordUpload(backend string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.uploadsTotal.WithLabelValues(backend, result).Inc()
}

// StatusCategory 2xx/4xx/5xx
func StatusCategory(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
