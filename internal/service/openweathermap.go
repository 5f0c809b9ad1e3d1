package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vzahanych/owm-weather-tool/internal/config"
	"github.com/vzahanych/owm-weather-tool/pkg/telemetry"
	"go.uber.org/zap"
)

type OpenWeatherMapService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

var _ CurrentWeatherService = (*OpenWeatherMapService)(nil)

func NewOpenWeatherMapServiceWithConfig(cfg config.OpenWeatherMapConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMapService {
	return NewOpenWeatherMapService(cfg, &http.Client{
		Timeout: time.Duration(cfg.Timeout) * time.Second,
	}, logger, tele)
}

// NewOpenWeatherMapService uses the given client as is; cfg.Timeout is ignored.
func NewOpenWeatherMapService(cfg config.OpenWeatherMapConfig, client *http.Client, logger *zap.Logger, tele *telemetry.Telemetry) *OpenWeatherMapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenWeatherMapService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  logger,
		tele:    tele,
	}
}

func (s *OpenWeatherMapService) Name() string {
	return "openweathermap"
}

// GetCurrentWeather performs a single GET against {base}/weather and returns
// the decoded JSON body verbatim. Failures are returned as *QueryError.
func (s *OpenWeatherMapService) GetCurrentWeather(ctx context.Context, params QueryParameters) (interface{}, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "openweathermap.GetCurrentWeather")
	defer span.End()

	span.SetAttributes(spanAttributes(params)...)

	u, err := BuildURL(s.baseURL, params, s.apiKey)
	if err != nil {
		return nil, s.fail(ctx, span, &QueryError{Kind: KindTransport, Err: err})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, s.fail(ctx, span, &QueryError{Kind: KindTransport, Err: err})
	}

	s.logger.Debug("Fetching current weather from OpenWeatherMap",
		zap.String("query", redactedQuery(params)))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, s.fail(ctx, span, &QueryError{Kind: KindTransport, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.fail(ctx, span, &QueryError{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		qe := &QueryError{Kind: KindRemoteRejection, StatusCode: resp.StatusCode, RawBody: body}
		var decoded interface{}
		if err := json.Unmarshal(body, &decoded); err == nil {
			qe.Body = decoded
		}
		return nil, s.fail(ctx, span, qe)
	}

	var result interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, s.fail(ctx, span, &QueryError{Kind: KindDecode, StatusCode: resp.StatusCode, RawBody: body, Err: err})
	}

	span.SetAttributes(attribute.Bool("success", true))
	return result, nil
}

func (s *OpenWeatherMapService) fail(ctx context.Context, span trace.Span, qe *QueryError) *QueryError {
	span.SetAttributes(attribute.Bool("success", false))
	s.tele.RecordError(ctx, qe, map[string]interface{}{
		"error.kind":       qe.Kind.String(),
		"http.status_code": qe.StatusCode,
	})
	return qe
}

func spanAttributes(p QueryParameters) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("service", "openweathermap")}
	if p.Q != "" {
		attrs = append(attrs, attribute.String("q", p.Q))
	}
	if p.ID != nil {
		attrs = append(attrs, attribute.Int64("id", *p.ID))
	}
	if p.Lat != nil {
		attrs = append(attrs, attribute.Float64("lat", *p.Lat))
	}
	if p.Lon != nil {
		attrs = append(attrs, attribute.Float64("lon", *p.Lon))
	}
	if p.Zip != "" {
		attrs = append(attrs, attribute.String("zip", p.Zip))
	}
	if p.Units != "" {
		attrs = append(attrs, attribute.String("units", p.Units))
	}
	if p.Lang != "" {
		attrs = append(attrs, attribute.String("lang", p.Lang))
	}
	if p.Mode != "" {
		attrs = append(attrs, attribute.String("mode", p.Mode))
	}
	attrs = append(attrs, attribute.Bool("appid.explicit", p.AppID != ""))
	return attrs
}

// redactedQuery is the outgoing query string without the API key.
func redactedQuery(p QueryParameters) string {
	p.AppID = ""
	return p.Values("").Encode()
}
