package quartzzkvm

import (
	"errors"
	"fmt"

	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/bus"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/utils"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/vm"
	"github.com/quartzlabs/quartz-zkvm/internal/quartz-zkvm/zk"
)

// ErrorCode represents a Quartz VM error kind
type ErrorCode int

const (
	// ErrUnknown represents an unclassified error
	ErrUnknown ErrorCode = iota

	// ErrOutOfBounds represents a memory access past capacity
	ErrOutOfBounds

	// ErrUnknownRegister represents a lookup of an invalid register id
	ErrUnknownRegister

	// ErrUnknownOpcode represents an undecodable instruction
	ErrUnknownOpcode

	// ErrOverflow represents arithmetic or program-counter overflow
	ErrOverflow

	// ErrMemoryRead represents a failed fetch or load
	ErrMemoryRead

	// ErrCopyFailed represents an unreadable copy source
	ErrCopyFailed

	// ErrHalted represents a tick attempted on a halted machine
	ErrHalted

	// ErrConfig represents missing or invalid configuration
	ErrConfig
)

// VMError represents a Quartz VM error
type VMError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("quartz-zkvm error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("quartz-zkvm error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *VMError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *VMError) Is(target error) bool {
	t, ok := target.(*VMError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// codeFor classifies an internal error onto the public code set.
func codeFor(err error) ErrorCode {
	switch {
	case errors.Is(err, bus.ErrOutOfBounds):
		return ErrOutOfBounds
	case errors.Is(err, bus.ErrCopyFailed):
		return ErrCopyFailed
	case errors.Is(err, vm.ErrUnknownRegister):
		return ErrUnknownRegister
	case errors.Is(err, vm.ErrUnknownOpcode):
		return ErrUnknownOpcode
	case errors.Is(err, vm.ErrOverflow):
		return ErrOverflow
	case errors.Is(err, vm.ErrMemoryRead), errors.Is(err, zk.ErrOutputRead):
		return ErrMemoryRead
	case errors.Is(err, vm.ErrHalted):
		return ErrHalted
	case errors.Is(err, utils.ErrConfig), errors.Is(err, zk.ErrCapacity), errors.Is(err, zk.ErrHashFunction):
		return ErrConfig
	default:
		return ErrUnknown
	}
}

// wrapError lifts an internal error into a coded VMError with a
// human-readable message.
func wrapError(message string, cause error) *VMError {
	return &VMError{
		Code:    codeFor(cause),
		Message: message,
		Cause:   cause,
	}
}
