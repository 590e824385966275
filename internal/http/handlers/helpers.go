package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"ecodeli/internal/logx"
	"ecodeli/internal/rpc"
)

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(log logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Warn("json encode error", logx.String("request_id", reqID(r.Context())), logx.Err(err))
	}
}

type errResponse struct {
	Error   string           `json:"error"`
	Code    string           `json:"code,omitempty"`
	Details []rpc.FieldError `json:"details,omitempty"`
}

func writeError(log logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	log.Debug("http error",
		logx.String("request_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(log, w, r, status, errResponse{Error: msg})
}

// writeFailure classifies err the same way the procedure router does.
func writeFailure(log logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, res := rpc.Failure(err)
	if res.Code == rpc.CodeInternal {
		log.Error("request failed",
			logx.String("request_id", reqID(r.Context())),
			logx.String("path", r.URL.Path),
			logx.Err(err),
		)
	}
	writeJSON(log, w, r, status, errResponse{Error: res.Error, Code: res.Code, Details: res.Details})
}

const (
	bodyLimit = 1 << 20
)

// decodeJSON decodes the body into dst and validates its struct tags.
func decodeJSON[T any](log logx.Logger, v *validator.Validate, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(log, w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(log, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(log, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	if err := rpc.Validate(v, dst); err != nil {
		writeFailure(log, w, r, err)
		return false
	}
	return true
}
