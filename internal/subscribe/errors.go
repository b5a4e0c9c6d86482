package subscribe

import (
	"fmt"
	"github.com/ceotarot/ceotarot/internal/errors"
	"github.com/ceotarot/ceotarot/internal/i18n"
)

var (
	// ErrValidation is matched by every [ValidationError].
	ErrValidation = errors.NewSentinel("validation failed")
	// ErrSink is matched by every [SinkError].
	ErrSink = errors.NewSentinel("sink failed")
	// ErrInternal marks unexpected faults such as a malformed request body.
	ErrInternal = errors.NewSentinel("internal error")
)

// ValidationError reports malformed user input. It is shown to the visitor.
type ValidationError struct {
	Field  string
	Reason string
	// MessageKey is the i18n key of the visitor facing message.
	MessageKey string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

var (
	errNameRequired = &ValidationError{
		Field:      "name",
		Reason:     "name required",
		MessageKey: i18n.MsgSubscribeNameRequired,
	}
	errInvalidEmail = &ValidationError{
		Field:      "email",
		Reason:     "invalid email",
		MessageKey: i18n.MsgSubscribeInvalidEmail,
	}
)

// SinkError reports a failed ledger append or email send. It is only logged.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("%s sink: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

func (e *SinkError) Is(target error) bool {
	return target == ErrSink
}

// InternalError wraps err so that it maps to a generic server error.
func InternalError(err error) error {
	return errors.Join(ErrInternal, err)
}
