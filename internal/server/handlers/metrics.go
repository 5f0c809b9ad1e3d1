package handlers

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/owm-weather-tool/internal/server/middlewares"
	"go.uber.org/zap"
)

// ToolMetrics counts tool calls and failures by error kind. It implements
// tool.MetricsRecorder.
type ToolMetrics struct {
	mutex  sync.RWMutex
	calls  map[string]int64
	errors map[string]map[string]int64
}

func NewToolMetrics() *ToolMetrics {
	return &ToolMetrics{
		calls:  make(map[string]int64),
		errors: make(map[string]map[string]int64),
	}
}

func (m *ToolMetrics) RecordToolCall(tool string, kind string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls[tool]++
	if kind == "" {
		return
	}
	if m.errors[tool] == nil {
		m.errors[tool] = make(map[string]int64)
	}
	m.errors[tool][kind]++
}

type MetricsHandler struct {
	logger      *zap.Logger
	httpMetrics *middlewares.HTTPMetrics
	toolMetrics *ToolMetrics
}

func NewMetricsHandler(logger *zap.Logger, httpMetrics *middlewares.HTTPMetrics, toolMetrics *ToolMetrics) *MetricsHandler {
	return &MetricsHandler{
		logger:      logger,
		httpMetrics: httpMetrics,
		toolMetrics: toolMetrics,
	}
}

// ServeMetrics exposes metrics in Prometheus text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.httpMetrics != nil {
		snap := h.httpMetrics.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, rc := range snap.Requests {
			b.WriteString("http_requests_total{route_status=\"" + rc.Key + "\"} " + strconv.FormatInt(rc.Count, 10) + "\n")
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AverageDuration, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n\n")
	}

	h.toolMetrics.mutex.RLock()
	defer h.toolMetrics.mutex.RUnlock()

	b.WriteString("# HELP weather_tool_calls_total Total tool calls\n")
	b.WriteString("# TYPE weather_tool_calls_total counter\n")
	for _, tool := range sortedKeys(h.toolMetrics.calls) {
		b.WriteString("weather_tool_calls_total{tool=\"" + tool + "\"} " + strconv.FormatInt(h.toolMetrics.calls[tool], 10) + "\n")
	}

	b.WriteString("\n# HELP weather_tool_errors_total Total failed tool calls by error kind\n")
	b.WriteString("# TYPE weather_tool_errors_total counter\n")
	for _, tool := range sortedKeys(h.toolMetrics.errors) {
		kinds := h.toolMetrics.errors[tool]
		for _, kind := range sortedKeys(kinds) {
			b.WriteString("weather_tool_errors_total{tool=\"" + tool + "\",kind=\"" + kind + "\"} " + strconv.FormatInt(kinds[kind], 10) + "\n")
		}
	}

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
