package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/vzahanych/owm-weather-tool/internal/service"
	"github.com/vzahanych/owm-weather-tool/internal/validation"
	"go.uber.org/zap"
)

const (
	CurrentWeatherName        = "get_current_weather"
	CurrentWeatherDescription = "Fetch current weather data for a specified location."
)

// MetricsRecorder receives one event per tool call. kind is empty on success.
type MetricsRecorder interface {
	RecordToolCall(tool string, kind string)
}

// CurrentWeatherTool exposes a CurrentWeatherService as get_current_weather.
type CurrentWeatherTool struct {
	service service.CurrentWeatherService
	logger  *zap.Logger
	metrics MetricsRecorder
}

var _ Tool = (*CurrentWeatherTool)(nil)

func NewCurrentWeatherTool(svc service.CurrentWeatherService, logger *zap.Logger) *CurrentWeatherTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurrentWeatherTool{
		service: svc,
		logger:  logger,
	}
}

func (t *CurrentWeatherTool) SetMetricsRecorder(metrics MetricsRecorder) {
	t.metrics = metrics
}

func (t *CurrentWeatherTool) Name() string {
	return CurrentWeatherName
}

func (t *CurrentWeatherTool) Description() string {
	return CurrentWeatherDescription
}

func (t *CurrentWeatherTool) Parameters() []ParameterDef {
	return []ParameterDef{
		{Name: service.QParam, Type: "string", Description: "City name for the weather query."},
		{Name: service.IDParam, Type: "integer", Description: "City ID for the weather query."},
		{Name: service.LatParam, Type: "number", Description: "Latitude of the location."},
		{Name: service.LonParam, Type: "number", Description: "Longitude of the location."},
		{Name: service.ZipParam, Type: "string", Description: "Zip code for the weather query."},
		{Name: service.UnitsParam, Type: "string", Description: "Units for temperature (e.g., metric, imperial)."},
		{Name: service.LangParam, Type: "string", Description: "Language for the response."},
		{Name: service.ModeParam, Type: "string", Description: "Format of the response (e.g., xml, html)."},
		{Name: service.AppIDParam, Type: "string", Description: "API key for authentication."},
	}
}

// Call decodes args into QueryParameters and runs Execute. Empty args are
// treated as an empty object.
//
// Keys match field names case-insensitively, so "mode" and "Mode" both set
// Mode and the last one in the object wins. Values must have the schema type:
// a fractional literal for id ({"id":2643743.0}) or a quoted number for
// lat/lon ({"lat":"51.5"}) is an InvalidParameters failure.
func (t *CurrentWeatherTool) Call(ctx context.Context, args json.RawMessage) Result {
	var params service.QueryParameters
	if trimmed := bytes.TrimSpace(args); len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, &params); err != nil {
			return t.Reject(ctx, params, fmt.Errorf("decode arguments: %w", err))
		}
	}
	return t.Execute(ctx, params)
}

// Execute never returns a Go error: failures are reported through Result
// and logged once.
func (t *CurrentWeatherTool) Execute(ctx context.Context, params service.QueryParameters) Result {
	if err := validation.ValidateStruct(params); err != nil {
		return t.finish(ctx, params, Failure(&service.QueryError{
			Kind: service.KindInvalidParameters,
			Err:  err,
		}))
	}

	data, err := t.service.GetCurrentWeather(ctx, params)
	if err != nil {
		return t.finish(ctx, params, Failure(err))
	}
	return t.finish(ctx, params, Success(data))
}

// Reject reports parameters that could not be decoded by the caller as an
// InvalidParameters failure, logged and counted like any other call.
func (t *CurrentWeatherTool) Reject(ctx context.Context, params service.QueryParameters, err error) Result {
	return t.finish(ctx, params, Failure(&service.QueryError{
		Kind: service.KindInvalidParameters,
		Err:  err,
	}))
}

func (t *CurrentWeatherTool) finish(ctx context.Context, params service.QueryParameters, res Result) Result {
	if t.metrics != nil {
		kind := ""
		if !res.OK() {
			kind = res.Kind().String()
		}
		t.metrics.RecordToolCall(t.Name(), kind)
	}

	if res.OK() {
		return res
	}

	fields := []zap.Field{
		zap.String("tool", t.Name()),
		zap.String("kind", res.Err.Kind.String()),
		zap.Error(res.Err),
	}
	if requestID, ok := ctx.Value(RequestIDKey{}).(string); ok && requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if params.Q != "" {
		fields = append(fields, zap.String("q", params.Q))
	}
	if res.Err.StatusCode != 0 {
		fields = append(fields, zap.Int("status", res.Err.StatusCode))
	}
	if len(res.Err.RawBody) > 0 && gjson.ValidBytes(res.Err.RawBody) {
		if cod := gjson.GetBytes(res.Err.RawBody, "cod"); cod.Exists() {
			fields = append(fields, zap.String("remote_code", cod.String()))
		}
		if msg := gjson.GetBytes(res.Err.RawBody, "message"); msg.Exists() {
			fields = append(fields, zap.String("remote_message", msg.String()))
		}
	}

	t.logger.Error("Error fetching current weather data", fields...)
	return res
}

// RequestIDKey is the context key carrying a request ID for correlated logs.
type RequestIDKey struct{}
