// Package errors provides the CRM error taxonomy and its mapping onto BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Error Codes
// ==========================

type ErrorCode string

const (
	ErrCodeNotFound                ErrorCode = "NOT_FOUND"
	ErrCodePersistence             ErrorCode = "PERSISTENCE_ERROR"
	ErrCodeDuplicateReport         ErrorCode = "DUPLICATE_REPORT"
	ErrCodeNoSupervisor            ErrorCode = "NO_SUPERVISOR"
	ErrCodeUnauthorized            ErrorCode = "UNAUTHORIZED"
	ErrCodeExternalDeliveryFailure ErrorCode = "EXTERNAL_DELIVERY_FAILURE"
	ErrCodeConflict                ErrorCode = "CONFLICT"
	ErrCodeInvalidTransition       ErrorCode = "INVALID_TRANSITION"
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrCodeInternal                ErrorCode = "INTERNAL_ERROR"
)

// ==========================
// 2. Standard Error
// ==========================

// StandardError carries a taxonomy code plus the context needed to log it.
// Two StandardErrors match under errors.Is when their codes are equal.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata attaches a key to the error and returns it for chaining.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound                = &StandardError{Code: ErrCodeNotFound}
	ErrPersistence             = &StandardError{Code: ErrCodePersistence}
	ErrDuplicateReport         = &StandardError{Code: ErrCodeDuplicateReport}
	ErrNoSupervisor            = &StandardError{Code: ErrCodeNoSupervisor}
	ErrUnauthorized            = &StandardError{Code: ErrCodeUnauthorized}
	ErrExternalDeliveryFailure = &StandardError{Code: ErrCodeExternalDeliveryFailure}
	ErrConflict                = &StandardError{Code: ErrCodeConflict}
	ErrInvalidTransition       = &StandardError{Code: ErrCodeInvalidTransition}
	ErrValidationFailed        = &StandardError{Code: ErrCodeValidationFailed}
)

// CodeOf returns the code of the first StandardError in err's chain,
// or INTERNAL_ERROR when there is none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// ==========================
// 3. Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewNotFoundError(entity, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", entity), fmt.Sprintf("id: %s", id), false, nil).
		WithMetadata("entity", entity).
		WithMetadata("id", id)
}

// NewPersistenceError wraps a storage failure that happened during op.
func NewPersistenceError(op string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodePersistence, fmt.Sprintf("persistence failure during %s", op), details, true, err).
		WithMetadata("step", op)
}

func NewDuplicateReportError(userID, reportDate string) *StandardError {
	return newError(ErrCodeDuplicateReport, "job report already submitted for this day",
		fmt.Sprintf("userId: %s, reportDate: %s", userID, reportDate), false, nil)
}

func NewNoSupervisorError(role string) *StandardError {
	return newError(ErrCodeNoSupervisor, "no supervisor available to review the report",
		fmt.Sprintf("submitter role: %s", role), false, nil)
}

func NewUnauthorizedError(details string) *StandardError {
	return newError(ErrCodeUnauthorized, "actor is not allowed to perform this action", details, false, nil)
}

func NewExternalDeliveryError(channel string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeExternalDeliveryFailure, fmt.Sprintf("delivery over %s failed", channel), details, true, err).
		WithMetadata("channel", channel)
}

func NewConflictError(details string) *StandardError {
	return newError(ErrCodeConflict, "entity was modified concurrently or is already in the target state", details, false, nil)
}

func NewInvalidTransitionError(from, to string) *StandardError {
	return newError(ErrCodeInvalidTransition, "status transition not allowed",
		fmt.Sprintf("from: %s, to: %s", from, to), false, nil)
}

func NewValidationError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "input validation failed", details, false, nil)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "unexpected error", err.Error(), false, err)
}

// FromStore passes taxonomy errors from a store through untouched and wraps
// anything else as a persistence failure during op.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return err
	}
	return NewPersistenceError(op, err)
}

// ==========================
// 4. BPMN Mapping
// ==========================

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// GetRetryCount is the number of job retries a code earns. Only storage and
// delivery failures are transient; business outcomes are thrown immediately.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePersistence:
		return 3
	case ErrCodeExternalDeliveryFailure:
		return 2
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PERSISTENCE"):
		return "DATABASE"
	case strings.Contains(codeStr, "DELIVERY"):
		return "NOTIFICATION"
	case code == ErrCodeUnauthorized:
		return "AUTH"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case code == ErrCodeInternal:
		return "OTHER"
	default:
		return "BUSINESS"
	}
}
