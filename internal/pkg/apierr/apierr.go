// Package apierr maps the core's closed bankerr taxonomy onto HTTP, the
// way src/errors/errors.go mapped its own ad-hoc error codes onto
// APIError{Code, Message, Status} — generalized here to the five codes
// bankerr.Code actually has, plus one VALIDATION_ERROR for request-shape
// problems the core never sees.
package apierr

import (
	"errors"
	"net/http"

	"ledger-core/internal/domain/bankerr"
)

// APIError is the JSON body every error response carries, plus the HTTP
// status it maps to (not serialized, it drives gin.Context.JSON directly).
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e APIError) Error() string { return e.Message }

const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeDB                     = "DB_ERROR"
	CodeInsufficientBalance    = "INSUFFICIENT_BALANCE"
	CodeNonExistingAccount     = "NON_EXISTING_ACCOUNT"
	CodeNonExistingTransaction = "NON_EXISTING_TRANSACTION"
	CodeClosedAccount          = "CLOSED_ACCOUNT"
)

// NewValidationError wraps a request-shape problem the core never sees
// (malformed JSON, missing field) — the one code apierr has that bankerr
// doesn't.
func NewValidationError(message string) APIError {
	return APIError{Code: CodeValidation, Message: message, Status: http.StatusBadRequest}
}

// FromBankErr maps a *bankerr.Error onto the HTTP status the spec's error
// taxonomy implies: 5xx for the store failing underneath us, 4xx for every
// expected domain error.
func FromBankErr(err *bankerr.Error) APIError {
	switch err.Code {
	case bankerr.InsufficientBalance:
		return APIError{Code: CodeInsufficientBalance, Message: err.Message, Status: http.StatusBadRequest}
	case bankerr.NonExistingAccount:
		return APIError{Code: CodeNonExistingAccount, Message: err.Message, Status: http.StatusNotFound}
	case bankerr.NonExistingTransaction:
		return APIError{Code: CodeNonExistingTransaction, Message: err.Message, Status: http.StatusNotFound}
	case bankerr.ClosedAccount:
		return APIError{Code: CodeClosedAccount, Message: err.Message, Status: http.StatusConflict}
	default:
		return APIError{Code: CodeDB, Message: "internal server error", Status: http.StatusInternalServerError}
	}
}

// From maps any error into an APIError, unwrapping a *bankerr.Error if
// present and falling back to a generic 500 otherwise.
func From(err error) APIError {
	var bankErr *bankerr.Error
	if errors.As(err, &bankErr) {
		return FromBankErr(bankErr)
	}
	return APIError{Code: CodeDB, Message: "internal server error", Status: http.StatusInternalServerError}
}
