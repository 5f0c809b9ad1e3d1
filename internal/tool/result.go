package tool

import (
	"github.com/vzahanych/owm-weather-tool/internal/service"
)

// ErrorRecord is the fixed-shape failure value handed to callers.
type ErrorRecord struct {
	Error string `json:"error"`
}

// Result is either a decoded payload or a failure with its kind.
type Result struct {
	Payload interface{}
	Err     *service.QueryError
}

func Success(payload interface{}) Result {
	return Result{Payload: payload}
}

func Failure(err error) Result {
	return Result{Err: service.AsQueryError(err)}
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Kind is zero on success.
func (r Result) Kind() service.ErrorKind {
	if r.Err == nil {
		return 0
	}
	return r.Err.Kind
}

// Value is the payload on success and the fixed ErrorRecord otherwise.
func (r Result) Value() interface{} {
	if r.Err != nil {
		return ErrorRecord{Error: service.FetchErrorMessage}
	}
	return r.Payload
}
