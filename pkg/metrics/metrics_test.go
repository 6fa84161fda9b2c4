package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	m := NewCollector(prometheus.NewRegistry())

	m.RecordHTTPRequest("GET", "/posts/paginated", "2xx", 10*time.Millisecond)
	m.RecordCache("likers", true)
	m.RecordCache("likers", false)
	m.RecordCache("likers", false)
	m.RecordLikeToggle("post", true)
	m.RecordComment(true)
	m.RecordUpload("local", errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/posts/paginated", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHitsTotal.WithLabelValues("likers")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheMissesTotal.WithLabelValues("likers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.likeTogglesTotal.WithLabelValues("post", "liked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commentsTotal.WithLabelValues("reply")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploadsTotal.WithLabelValues("local", "error")))
}

func TestNilCollector(t *testing.T) {
	var m *Collector
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", "2xx", time.Millisecond)
		m.RecordCache("likers", true)
		m.RecordLikeToggle("comment", false)
		m.RecordComment(false)
		m.RecordUpload("oss", nil)
	})
}

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", StatusCategory(201))
	assert.Equal(t, "4xx", StatusCategory(404))
	assert.Equal(t, "5xx", StatusCategory(503))
}
