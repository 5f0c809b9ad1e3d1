package middlewares

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/owm-weather-tool/pkg/telemetry"
	"go.uber.org/zap"
)

const maxRecordedDurations = 1000

// HTTPMetrics holds only HTTP request metrics
type HTTPMetrics struct {
	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

// RouteCount is the number of requests seen for one method, route and status.
type RouteCount struct {
	Key   string
	Count int64
}

// HTTPSnapshot is a consistent copy of HTTPMetrics.
type HTTPSnapshot struct {
	Requests        []RouteCount
	AverageDuration float64
	ActiveRequests  int64
}

func (m *HTTPMetrics) Snapshot() HTTPSnapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := HTTPSnapshot{ActiveRequests: m.activeRequests}
	for key, count := range m.requestsTotal {
		snap.Requests = append(snap.Requests, RouteCount{Key: key, Count: count})
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })

	if len(m.requestDurations) > 0 {
		sum := 0.0
		for _, d := range m.requestDurations {
			sum += d
		}
		snap.AverageDuration = sum / float64(len(m.requestDurations))
	}
	return snap
}

type MetricsMiddleware struct {
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics *HTTPMetrics
}

func NewMetricsMiddleware(logger *zap.Logger, tele *telemetry.Telemetry) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger: logger,
		tele:   tele,
		metrics: &HTTPMetrics{
			requestsTotal:    make(map[string]int64),
			requestDurations: make([]float64, 0),
		},
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.metrics.mutex.Lock()
		m.metrics.activeRequests++
		m.metrics.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		statusCode := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		key := method + " " + route + "_" + statusCode

		m.metrics.mutex.Lock()
		m.metrics.requestsTotal[key]++
		m.metrics.requestDurations = append(m.metrics.requestDurations, duration)
		m.metrics.activeRequests--

		if len(m.metrics.requestDurations) > maxRecordedDurations {
			m.metrics.requestDurations = m.metrics.requestDurations[len(m.metrics.requestDurations)-maxRecordedDurations:]
		}
		m.metrics.mutex.Unlock()

		if m.tele.IsEnabled() {
			m.logger.Debug("HTTP metrics recorded",
				zap.String("method", method),
				zap.String("route", route),
				zap.Int("status", c.Writer.Status()),
				zap.Float64("duration", duration))
		}
	}
}

func (m *MetricsMiddleware) GetHTTPMetrics() *HTTPMetrics {
	return m.metrics
}
