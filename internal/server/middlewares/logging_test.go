package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactQuery(t *testing.T) {
	assert.Equal(t, "q=Paris", redactQuery("q=Paris"))
	assert.Equal(t, "appid=REDACTED&q=Paris", redactQuery("q=Paris&appid=secret"))
	assert.Equal(t, "[unparseable]", redactQuery("q=%zz"))
}

func TestLoggingMiddlewareRedactsAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(zap.New(core), time.RFC3339, true))
	r.GET("/weather", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/weather?q=Paris&appid=secret", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/weather?appid=REDACTED&q=Paris", fields["path"])
	assert.NotEmpty(t, fields["request_id"])
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(RecoveryMiddleware(zap.New(core), false))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("HTTP panic recovered").Len())
}
