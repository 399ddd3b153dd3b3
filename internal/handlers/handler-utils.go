package handlers

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/concordlabs/concord/internal/dtos"
	app_error "github.com/concordlabs/concord/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type HandlerFunc func(w http.ResponseWriter, r *http.Request) *app_error.AppError

func WrapHandler(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			log.Error().Err(err).Msg(fmt.Sprintf("error occur, request id: %s", r.Header.Get("X-Request-ID")))
			writeJSON(w, err.Code, CreateErrorResponse(err, r.Header.Get("X-Request-ID")))
		}
	}
}

func CreateResponse[T any](message string, data T, requestId string) dtos.Response[T] {
	return dtos.Response[T]{
		Message:   message,
		Data:      data,
		RequestID: requestId,
	}
}

// CreateErrorResponse is the failure-path counterpart of
// CreateResponse.
func CreateErrorResponse(err *app_error.AppError, requestId string) dtos.Response[any] {
	return dtos.Response[any]{
		Message:   err.Message,
		RequestID: requestId,
		Errors: &dtos.ErrorResponse{
			Code:    err.Code,
			Message: err.Message,
			Field:   err.Field,
		},
	}
}

// MethodNotAllowed is chi's fallback for known paths hit with the
// wrong verb.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
		"message": "Method not allowed",
	})
}
