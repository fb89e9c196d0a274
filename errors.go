package strokemodel

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failure modes a public StrokeModeler call can
// report. See spec §7 for the full propagation policy.
type ErrorKind int

const (
	// ErrInvalidArgument covers malformed parameters, duplicate input,
	// non-increasing input time, non-finite position/time, and an
	// upsampling step count that would exceed max_outputs_per_call.
	ErrInvalidArgument ErrorKind = iota
	// ErrFailedPrecondition covers calling Update/Predict before the
	// first successful Reset(params), a Down while in-progress, a
	// Move/Up while idle, or Predict while idle or with a disabled
	// predictor.
	ErrFailedPrecondition
	// ErrInternal must never be reachable: it would indicate a bug in
	// this package's arithmetic, not bad input.
	ErrInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrFailedPrecondition:
		return "FailedPrecondition"
	case ErrInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every fallible StrokeModeler method.
// The caller's state is left unchanged on any Error: a Reset is always
// available as a recovery step.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("strokemodel: %s: %s", e.Kind, e.Msg)
}

func invalidArgf(format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func failedPreconditionf(format string, args ...any) error {
	return &Error{Kind: ErrFailedPrecondition, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err, if err is (or wraps) an *Error.
// It returns ErrInternal, false for any other error, including nil.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return ErrInternal, false
}
