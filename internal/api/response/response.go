package response

import (
	"context"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/curaious/finca/internal/perrors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope every endpoint writes:
// {"status": "success"|"error", "message": ..., "data": ...}.
type Response[T any] struct {
	ctx        context.Context
	Status     string       `json:"status"`
	Message    string       `json:"message"`
	Data       T            `json:"data"`
	Error      *perrors.Err `json:"error,omitempty"`
	httpStatus int
}

func NewResponse[T any](ctx context.Context, msg string, data T) *Response[T] {
	return &Response[T]{
		ctx:        ctx,
		Status:     StatusSuccess,
		Message:    msg,
		Data:       data,
		httpStatus: http.StatusOK,
	}
}

// WithError marks the response as failed. The HTTP status is taken from the
// domain kind err wraps.
func (r *Response[T]) WithError(err error) *Response[T] {
	perr, ok := perrors.FromError(r.Message, err).(perrors.Err)
	if !ok {
		perr = perrors.NewErrInternalServerError(r.Message, err).(perrors.Err)
	}
	perr.Print(r.ctx)

	r.Status = StatusError
	r.Error = &perr
	r.httpStatus = perr.HttpStatus()

	return r
}

// WithStatus will set the HTTP response status code.
//
// This is not a preferred way of setting status code.
//   - Try to use perrors.Err embedded with a status code whenever possible.
//   - Default is http.StatusOK and it need not be set explicitly.
func (r *Response[T]) WithStatus(code int) *Response[T] {
	r.httpStatus = code

	return r
}

func (r *Response[T]) HTTPStatus() int {
	return r.httpStatus
}

// Write will set the `content-type` to `application/json` and write the response to the fasthttp context.
func (r *Response[T]) Write(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetStatusCode(r.httpStatus)

	body, err := json.Marshal(r)
	if err != nil {
		slog.ErrorContext(r.ctx, "Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}
