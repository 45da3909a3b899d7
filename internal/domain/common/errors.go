// internal/domain/common/errors.go
package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code classifies a data-operation failure.
// The set is closed: every adapter error must collapse into one of these.
type Code string

const (
	CodeNotFound         Code = "not_found"
	CodePermissionDenied Code = "permission_denied"
	CodeNetworkError     Code = "network_error"
	CodeAlreadyExists    Code = "already_exists"
	CodeInvalidInput     Code = "invalid_input"
	CodeUnauthorized     Code = "unauthorized"
	CodeUnknown          Code = "unknown"
)

// userMessages are the only strings shown to end users for data failures.
// Raw provider/store errors go to logs via Detail, never to the UI.
var userMessages = map[Code]string{
	CodeNotFound:         "The requested data was not found.",
	CodePermissionDenied: "You don't have permission to access this data.",
	CodeNetworkError:     "Network error. Please check your internet connection.",
	CodeAlreadyExists:    "This item already exists.",
	CodeInvalidInput:     "The request was invalid. Please try again.",
	CodeUnauthorized:     "Please sign in to perform this action.",
	CodeUnknown:          "Something went wrong. Please try again.",
}

// DataError is the error type crossing the public boundary of the data layer.
type DataError struct {
	Code   Code
	Detail string // raw underlying error, for logs only
}

func (e *DataError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Detail
}

// UserMessage returns the pre-written, non-technical message for the code.
func (e *DataError) UserMessage() string {
	if e == nil {
		return userMessages[CodeUnknown]
	}
	if msg, ok := userMessages[e.Code]; ok {
		return msg
	}
	return userMessages[CodeUnknown]
}

func NewDataError(code Code, detail string) *DataError {
	return &DataError{Code: code, Detail: detail}
}

func Errorf(code Code, format string, args ...any) *DataError {
	return &DataError{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the taxonomy code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var de *DataError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// FromStoreError maps a raw document-store error into the closed taxonomy.
// gRPC status codes cover Firestore; context errors count as network failures.
func FromStoreError(err error) *DataError {
	if err == nil {
		return nil
	}
	var de *DataError
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DataError{Code: CodeNetworkError, Detail: err.Error()}
	}

	switch status.Code(err) {
	case codes.NotFound:
		return &DataError{Code: CodeNotFound, Detail: err.Error()}
	case codes.PermissionDenied:
		return &DataError{Code: CodePermissionDenied, Detail: err.Error()}
	case codes.AlreadyExists:
		return &DataError{Code: CodeAlreadyExists, Detail: err.Error()}
	case codes.InvalidArgument, codes.FailedPrecondition:
		return &DataError{Code: CodeInvalidInput, Detail: err.Error()}
	case codes.Unauthenticated:
		return &DataError{Code: CodeUnauthorized, Detail: err.Error()}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &DataError{Code: CodeNetworkError, Detail: err.Error()}
	default:
		return &DataError{Code: CodeUnknown, Detail: err.Error()}
	}
}
