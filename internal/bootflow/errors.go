package bootflow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error that ended the flow
type ErrorType int

const (
	// ErrTypeCancelled indicates the operator cancelled the menu or form
	ErrTypeCancelled ErrorType = iota
	// ErrTypeMissingInput indicates the username setting was empty
	ErrTypeMissingInput
	// ErrTypeMalformedTarget indicates an unusable multi-boot descriptor
	ErrTypeMalformedTarget
	// ErrTypeConfigWriteFailed indicates the settings store rejected a write
	ErrTypeConfigWriteFailed
)

// Result codes reported to the boot agent.
const (
	ResultOK                = 0
	ResultCancelled         = -125
	ResultMissingInput      = -1
	ResultMalformedTarget   = -1
	ResultConfigWriteFailed = -5
	// ResultUnknown is used for errors that did not come from the flow.
	ResultUnknown = -1
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeCancelled:
		return "Cancelled"
	case ErrTypeMissingInput:
		return "Missing Input"
	case ErrTypeMalformedTarget:
		return "Malformed Target"
	case ErrTypeConfigWriteFailed:
		return "Config Write Failed"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// FlowError is an error that ended a login flow
type FlowError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Setting string    // Setting involved (if any)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FlowError) Unwrap() error {
	return e.Err
}

// NewCancelledError creates an error for an operator cancel
func NewCancelledError(message string) *FlowError {
	return &FlowError{Type: ErrTypeCancelled, Message: message}
}

// NewMissingInputError creates an error for an empty required setting
func NewMissingInputError(setting string) *FlowError {
	return &FlowError{
		Type:    ErrTypeMissingInput,
		Message: fmt.Sprintf("setting %q is empty", setting),
		Setting: setting,
	}
}

// NewMalformedTargetError creates an error for a bad multi-boot descriptor
func NewMalformedTargetError(descriptor, reason string) *FlowError {
	return &FlowError{
		Type:    ErrTypeMalformedTarget,
		Message: fmt.Sprintf("bad multi-boot target %q: %s", descriptor, reason),
	}
}

// NewConfigWriteError creates an error for a rejected store write
func NewConfigWriteError(setting string, err error) *FlowError {
	return &FlowError{
		Type:    ErrTypeConfigWriteFailed,
		Message: fmt.Sprintf("failed to write setting %q", setting),
		Setting: setting,
		Err:     err,
	}
}

func errorType(err error) (ErrorType, bool) {
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Type, true
	}
	return 0, false
}

// IsCancelled checks if an error is an operator cancel
func IsCancelled(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeCancelled
}

// IsMissingInput checks if an error is a missing input error
func IsMissingInput(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeMissingInput
}

// IsMalformedTarget checks if an error is a malformed target error
func IsMalformedTarget(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeMalformedTarget
}

// IsConfigWriteFailed checks if an error is a store write failure
func IsConfigWriteFailed(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeConfigWriteFailed
}

// ResultCode maps an error to the signed result reported to the boot agent.
func ResultCode(err error) int {
	if err == nil {
		return ResultOK
	}
	t, ok := errorType(err)
	if !ok {
		return ResultUnknown
	}
	switch t {
	case ErrTypeCancelled:
		return ResultCancelled
	case ErrTypeMissingInput:
		return ResultMissingInput
	case ErrTypeMalformedTarget:
		return ResultMalformedTarget
	case ErrTypeConfigWriteFailed:
		return ResultConfigWriteFailed
	default:
		return ResultUnknown
	}
}

// Hint returns operator-facing troubleshooting advice for an error
func Hint(err error) string {
	t, ok := errorType(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch t {
	case ErrTypeCancelled:
		return "Login was cancelled. No settings were changed."

	case ErrTypeMissingInput:
		return strings.Join([]string{
			"No username is configured.",
			"Troubleshooting:",
			"  • Set it with: ccboot-login settings set username <computer-name>",
			"  • For multi-boot, set it to the iscsi: target descriptor",
		}, "\n")

	case ErrTypeMalformedTarget:
		return strings.Join([]string{
			"The multi-boot target descriptor could not be parsed.",
			"The placeholder credentials were still written.",
			"Troubleshooting:",
			"  • The descriptor must end with ':<count>', e.g. iqn.2008-12.com.ccboot.211:2",
			"  • The count must be a digit from 1 to 8",
		}, "\n")

	case ErrTypeConfigWriteFailed:
		return strings.Join([]string{
			"A setting could not be saved.",
			"Settings written before the failure were kept.",
			"Troubleshooting:",
			"  • Check that the settings store path is writable",
			"  • Inspect the store with: ccboot-login settings list",
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}
