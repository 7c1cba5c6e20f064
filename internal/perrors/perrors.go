package perrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
)

type ErrCode struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
}

var (
	ErrCodeInvalidRequest   = ErrCode{"invalid_request", http.StatusBadRequest}
	ErrCodeInvalidState     = ErrCode{"invalid_state", http.StatusBadRequest}
	ErrCodeInternalServer   = ErrCode{"internal_server_error", http.StatusInternalServerError}
	ErrCodeConfiguration    = ErrCode{"configuration_error", http.StatusInternalServerError}
	ErrCodeNotFound         = ErrCode{"not_found", http.StatusNotFound}
	ErrCodeUnauthorized     = ErrCode{"unauthorized", http.StatusUnauthorized}
	ErrCodeForbidden        = ErrCode{"forbidden", http.StatusForbidden}
	ErrCodeMethodNotAllowed = ErrCode{"method_not_allowed", http.StatusMethodNotAllowed}
	ErrCodeTooManyRequests  = ErrCode{"too_many_requests", http.StatusTooManyRequests}
)

// Domain error kinds. Services wrap these with context and FromError maps
// them onto HTTP codes at the API boundary.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidState    = errors.New("invalid state")
	ErrValidation      = errors.New("validation failed")
	ErrConfiguration   = errors.New("configuration error")
)

type Err struct {
	Message    string                   `json:"-"`
	Err        string                   `json:"error"`
	Code       ErrCode                  `json:"-"`
	Stacktrace []string                 `json:"-"`
	Args       []map[string]interface{} `json:"args,omitempty"`
}

func (e Err) Error() string {
	return e.Err
}

func (e Err) HttpStatus() int {
	return e.Code.Status
}

func (e Err) Print(ctx context.Context) {
	args := []any{slog.Any("error", e.Error()), slog.String("code", e.Code.Code)}
	if len(e.Args) > 0 {
		for k, v := range e.Args[0] {
			args = append(args, slog.Any(k, v))
		}
	}
	if e.Code.Status >= http.StatusInternalServerError {
		args = append(args, slog.Any("stacktrace", e.Stacktrace))
		slog.ErrorContext(ctx, e.Message, args...)
		return
	}
	slog.WarnContext(ctx, e.Message, args...)
}

func New(code ErrCode, msg string, err error, args ...map[string]interface{}) error {
	pc := make([]uintptr, 20)
	count := runtime.Callers(1, pc)
	frames := runtime.CallersFrames(pc[:count])

	var stacktrace []string
	for frame, hasMore := frames.Next(); hasMore; frame, hasMore = frames.Next() {
		stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
	}

	errString := "error missing"
	if err != nil {
		errString = err.Error()
	}

	return Err{
		Code:       code,
		Message:    msg,
		Err:        errString,
		Stacktrace: stacktrace,
		Args:       args,
	}
}

func NewErrInvalidRequest(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInvalidRequest, msg, err, args...)
}

func NewErrInternalServerError(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInternalServer, msg, err, args...)
}

// CodeOf classifies err by the domain kind it wraps.
func CodeOf(err error) ErrCode {
	var perr Err
	switch {
	case errors.As(err, &perr):
		return perr.Code
	case errors.Is(err, ErrConfiguration):
		return ErrCodeConfiguration
	case errors.Is(err, ErrUnauthenticated):
		return ErrCodeUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return ErrCodeForbidden
	case errors.Is(err, ErrNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrInvalidState):
		return ErrCodeInvalidState
	case errors.Is(err, ErrValidation):
		return ErrCodeInvalidRequest
	default:
		return ErrCodeInternalServer
	}
}

// FromError converts a service error into an Err carrying the HTTP code of
// its domain kind. Errors that are already Err pass through.
func FromError(msg string, err error, args ...map[string]interface{}) error {
	var perr Err
	if errors.As(err, &perr) {
		return perr
	}
	return New(CodeOf(err), msg, err, args...)
}
