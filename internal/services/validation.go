package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error     string            `json:"error"`
	Required  string            `json:"required,omitempty"`
	Available string            `json:"available,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// ValidationHelper provides shared request validation.
type ValidationHelper struct {
	validator *validator.Validate
}

func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a request struct against its tags.
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// SendErrorResponse writes a JSON error, expanding validator field errors
// into per-field detail messages.
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	var fieldErrs validator.ValidationErrors
	if errors.As(validationErr, &fieldErrs) {
		errorResp.Details = make(map[string]string)
		for _, err := range fieldErrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// WriteServiceError maps the wallet error taxonomy onto HTTP statuses.
// Validation errors surface with enough detail to correct the input;
// storage failures come back as a generic retryable message.
func WriteServiceError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var insufficient *InsufficientBalanceError
	var instrument *InvalidInstrumentError
	var notFound *TransactionNotFoundError
	var ioErr *IOError

	switch {
	case errors.Is(err, ErrInvalidAmount):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
	case errors.As(err, &insufficient):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:     err.Error(),
			Required:  insufficient.Required.StringFixed(2),
			Available: insufficient.Available.StringFixed(2),
		})
	case errors.As(err, &instrument):
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
	case errors.As(err, &notFound):
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
	case errors.As(err, &ioErr):
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Temporary storage failure, please retry"})
	default:
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
	}
}
