package reply

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"stealdeals/pkg/contextx"
	"stealdeals/pkg/errcodes"
	"stealdeals/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code failure.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// DefaultMessage is shown when nothing in the error chain describes the
// failure to the user.
const DefaultMessage = "Something went wrong, please try again"

// userMessenger is implemented by errors carrying a user-facing message
// without a failure kind of their own.
type userMessenger interface {
	UserMessage() string
}

func (e *errorResponse) WithDefaultMessage(err error) {
	if e.Message != "" {
		return
	}

	var m userMessenger
	if errors.As(err, &m) && m.UserMessage() != "" {
		e.Message = m.UserMessage()
		return
	}

	e.Message = DefaultMessage
}

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Redirect answers with 302 Found pointing at location.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, location, http.StatusFound)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Error converts err into the single JSON error body the clients show as a
// notification. Client faults are logged at warn level, everything else at
// error level.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	response := errorResponse{
		Code:      failure.Code(err).String(),
		Message:   failure.Description(err),
		SupportID: supportID(ctx),
	}

	status := http.StatusInternalServerError

	switch {
	case failure.IsInvalidArgumentError(err):
		response.WithDefaultCode(errcodes.ValidationError)
		status = http.StatusBadRequest
	case failure.IsNotFoundError(err):
		response.WithDefaultCode(errcodes.NotFound)
		status = http.StatusNotFound
	case failure.IsUnauthorizedError(err):
		response.WithDefaultCode(errcodes.SessionRequired)
		status = http.StatusUnauthorized
	case failure.IsForbiddenError(err):
		response.WithDefaultCode(errcodes.Forbidden)
		status = http.StatusForbidden
	case failure.IsConflictError(err):
		status = http.StatusConflict
	case failure.IsUnprocessableEntityError(err):
		status = http.StatusUnprocessableEntity
	default:
		response.WithDefaultCode(errcodes.InternalServerError)
	}

	response.WithDefaultMessage(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	logger(ctx).Log(ctx, level, "error", logx.Error(err), slog.Int(logx.FieldResponseStatus, status))

	JSON(ctx, w, status, response)
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
