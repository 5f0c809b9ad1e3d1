package service

import "context"

// CurrentWeatherService fetches the current weather for one location.
// Implementations return the decoded remote payload or a *QueryError.
type CurrentWeatherService interface {
	GetCurrentWeather(ctx context.Context, params QueryParameters) (interface{}, error)
	Name() string
}
