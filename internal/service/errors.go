package service

import (
	"errors"
	"fmt"
)

// FetchErrorMessage is the only error text callers of the tool ever see.
const FetchErrorMessage = "An error occurred while fetching current weather data."

type ErrorKind int

const (
	// KindRemoteRejection: the API answered with a non-2xx status.
	KindRemoteRejection ErrorKind = iota + 1
	// KindTransport: the request could not be sent or the body not read.
	KindTransport
	// KindDecode: the response body was not valid JSON.
	KindDecode
	// KindInvalidParameters: the parameters were rejected before any request.
	KindInvalidParameters
)

func (k ErrorKind) String() string {
	switch k {
	case KindRemoteRejection:
		return "remote_rejection"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindInvalidParameters:
		return "invalid_parameters"
	default:
		return "unknown"
	}
}

// QueryError describes why a current weather query failed.
type QueryError struct {
	Kind       ErrorKind
	StatusCode int
	// Body is the decoded error payload of a remote rejection, when it was JSON.
	Body    interface{}
	RawBody []byte
	Err     error
}

func (e *QueryError) Error() string {
	switch {
	case e.Kind == KindRemoteRejection:
		return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// AsQueryError returns err as a *QueryError, classifying unknown errors as
// transport failures.
func AsQueryError(err error) *QueryError {
	if err == nil {
		return nil
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}
	return &QueryError{Kind: KindTransport, Err: err}
}
