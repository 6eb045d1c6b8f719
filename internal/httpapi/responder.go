package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/example/agenda-generator/internal/agenda"
	"github.com/example/agenda-generator/internal/logging"
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// handleServiceError maps the agenda package's error sentinels to the HTTP
// statuses §7 assigns them. SolverTimeout is not handled here: the service
// reports it as a successful 201 with empty entries, never as an error.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, "unknown error")
		return
	}

	r.loggerFor(ctx).ErrorContext(ctx, "request failed", "error", err, "error_kind", agenda.ErrorKind(err))

	var vErr *agenda.ValidationError
	switch {
	case errors.As(err, &vErr):
		r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
			Message: "リクエストの内容に誤りがあります。",
			Errors:  vErr.FieldErrors,
		})
	case errors.Is(err, agenda.ErrInvalidRequest):
		r.writeError(ctx, w, http.StatusBadRequest, "リクエストの内容に誤りがあります。")
	case errors.Is(err, agenda.ErrNotFound):
		r.writeError(ctx, w, http.StatusNotFound, "指定されたリソースが見つかりません。")
	case errors.Is(err, agenda.ErrNoData):
		r.writeError(ctx, w, http.StatusNotFound, "指定された期間に対応するデータがありません。")
	default:
		r.writeError(ctx, w, http.StatusInternalServerError, "サーバー内部でエラーが発生しました。")
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
