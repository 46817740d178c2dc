package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-manager/internal/usecase"
)

const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeNotFoundRoute    = "NOT_FOUND"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL_ERROR"
)

type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError maps use case failures onto HTTP. Anything that is
// not a validation or domain error is logged and hidden behind
// internalMsg.
func writeUseCaseError(w http.ResponseWriter, logger *zap.Logger, err error, internalMsg string) {
	var verrs usecase.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   usecase.CodeValidation,
			Message: "Validation failed",
			Fields:  verrs.Fields(),
		})
		return
	}

	if de, ok := usecase.AsDomainError(err); ok {
		writeError(w, domainStatus(de.Code), de.Code, de.Message)
		return
	}

	fields := []zap.Field{zap.Error(err)}
	if te, ok := usecase.AsTechnicalError(err); ok {
		fields = append(fields, zap.String("code", te.Code))
	}
	logger.Error(internalMsg, fields...)
	writeError(w, http.StatusInternalServerError, CodeInternal, internalMsg)
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeEmailConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// decodeJSON reads the request body into dst. Type mismatches come back
// as validation errors naming the offending field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var (
		typeErr *json.UnmarshalTypeError
		tooBig  *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooBig):
		writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   usecase.CodeValidation,
			Message: "Validation failed",
			Fields:  map[string][]string{typeErr.Field: {typeMismatchMessage(typeErr.Type)}},
		})
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Request body is empty")
	default:
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON")
	}
	return false
}

func typeMismatchMessage(t reflect.Type) string {
	if t == reflect.TypeOf(time.Time{}) {
		return "must be an ISO-8601 date or timestamp"
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Bool:
		return "must be true or false"
	case reflect.String:
		return "must be a string"
	}
	return "has an invalid type"
}
