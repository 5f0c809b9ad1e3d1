package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/owm-weather-tool/internal/config"
	"github.com/vzahanych/owm-weather-tool/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, baseURL, apiKey string) *OpenWeatherMapService {
	t.Helper()
	cfg := config.OpenWeatherMapConfig{BaseURL: baseURL, APIKey: apiKey, Timeout: 5}
	return NewOpenWeatherMapServiceWithConfig(cfg, zaptest.NewLogger(t), telemetry.Disabled())
}

func TestGetCurrentWeather_Success(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"weather":[{"main":"Clear"}],"main":{"temp":21.5}}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL+"/data/2.5", "env-key")
	data, err := svc.GetCurrentWeather(context.Background(), QueryParameters{Q: "Berlin", Units: "metric"})
	require.NoError(t, err)

	assert.Equal(t, "/data/2.5/weather", gotPath)
	assert.Equal(t, "q=Berlin&units=metric&appid=env-key", gotQuery)
	assert.Equal(t, map[string]interface{}{
		"weather": []interface{}{map[string]interface{}{"main": "Clear"}},
		"main":    map[string]interface{}{"temp": 21.5},
	}, data)
}

func TestGetCurrentWeather_RemoteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"cod":401,"message":"Invalid API key."}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "bad")
	data, err := svc.GetCurrentWeather(context.Background(), QueryParameters{Q: "Berlin"})
	require.Error(t, err)
	assert.Nil(t, data)

	var qe *QueryError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, KindRemoteRejection, qe.Kind)
	assert.Equal(t, http.StatusUnauthorized, qe.StatusCode)
	assert.Equal(t, map[string]interface{}{"cod": float64(401), "message": "Invalid API key."}, qe.Body)
}

func TestGetCurrentWeather_RemoteRejectionWithNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestService(t, srv.URL, "k").GetCurrentWeather(context.Background(), QueryParameters{})

	qe := AsQueryError(err)
	require.NotNil(t, qe)
	assert.Equal(t, KindRemoteRejection, qe.Kind)
	assert.Nil(t, qe.Body)
	assert.Contains(t, string(qe.RawBody), "upstream broke")
}

func TestGetCurrentWeather_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<current><city name="London"/></current>`))
	}))
	defer srv.Close()

	_, err := newTestService(t, srv.URL, "k").GetCurrentWeather(context.Background(), QueryParameters{Mode: "xml"})

	qe := AsQueryError(err)
	require.NotNil(t, qe)
	assert.Equal(t, KindDecode, qe.Kind)
}

func TestGetCurrentWeather_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := newTestService(t, base, "k").GetCurrentWeather(context.Background(), QueryParameters{Q: "Oslo"})

	qe := AsQueryError(err)
	require.NotNil(t, qe)
	assert.Equal(t, KindTransport, qe.Kind)
	assert.NotNil(t, qe.Unwrap())
}

func TestGetCurrentWeather_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestService(t, srv.URL, "k").GetCurrentWeather(ctx, QueryParameters{})

	qe := AsQueryError(err)
	require.NotNil(t, qe)
	assert.Equal(t, KindTransport, qe.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetCurrentWeather_ConcurrentCallsAreIndependent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"` + r.URL.Query().Get("q") + `"}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, "k")
	cities := []string{"Paris", "Rome", "Lima", "Kyiv", "Quito", "Hanoi", "Accra", "Seoul"}

	var wg sync.WaitGroup
	results := make([]interface{}, len(cities))
	errs := make([]error, len(cities))
	for i, city := range cities {
		wg.Add(1)
		go func(i int, city string) {
			defer wg.Done()
			results[i], errs[i] = svc.GetCurrentWeather(context.Background(), QueryParameters{Q: city})
		}(i, city)
	}
	wg.Wait()

	for i, city := range cities {
		require.NoError(t, errs[i])
		assert.Equal(t, map[string]interface{}{"name": city}, results[i])
	}
}

func TestQueryErrorMessages(t *testing.T) {
	assert.Equal(t, "remote_rejection: status 404", (&QueryError{Kind: KindRemoteRejection, StatusCode: 404}).Error())
	assert.Equal(t, "transport: boom", (&QueryError{Kind: KindTransport, Err: errors.New("boom")}).Error())
	assert.Equal(t, "invalid_parameters", (&QueryError{Kind: KindInvalidParameters}).Error())
	assert.Equal(t, "unknown", ErrorKind(0).String())
}

func TestAsQueryError(t *testing.T) {
	assert.Nil(t, AsQueryError(nil))

	plain := errors.New("plain")
	qe := AsQueryError(plain)
	assert.Equal(t, KindTransport, qe.Kind)
	assert.ErrorIs(t, qe, plain)
}
