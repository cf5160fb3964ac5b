// Package apperror defines the typed errors returned by the approval usecases.
//
// Every refused transition is reported as an *Error with a Kind the caller can
// switch on and a Reason that is safe to show to a reviewer verbatim.
package apperror

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindPrecondition       Kind = "precondition"
	KindEventNotActive     Kind = "event_not_active"
	KindAlreadyAssigned    Kind = "already_assigned"
	KindMissingParticipant Kind = "missing_participant"
	KindNotFound           Kind = "not_found"
	KindStorage            Kind = "storage"
	KindBulkRejected       Kind = "bulk_rejected"
)

// Sentinels for errors.Is matching. Only the Kind is compared.
var (
	ErrValidation         = &Error{Kind: KindValidation}
	ErrPrecondition       = &Error{Kind: KindPrecondition}
	ErrEventNotActive     = &Error{Kind: KindEventNotActive}
	ErrAlreadyAssigned    = &Error{Kind: KindAlreadyAssigned}
	ErrMissingParticipant = &Error{Kind: KindMissingParticipant}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrStorage            = &Error{Kind: KindStorage}
	ErrBulkRejected       = &Error{Kind: KindBulkRejected}
)

type Error struct {
	Kind   Kind
	Reason string
	// IDs lists the failing identities for bulk refusals.
	IDs   []string
	Cause error
}

func (e *Error) Error() string {
	msg := e.Reason
	if msg == "" {
		msg = string(e.Kind)
	}
	if len(e.IDs) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.IDs, ", "))
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func Validation(reason string) *Error {
	return &Error{Kind: KindValidation, Reason: reason}
}

func Precondition(reason string) *Error {
	return &Error{Kind: KindPrecondition, Reason: reason}
}

func EventNotActive(reason string) *Error {
	return &Error{Kind: KindEventNotActive, Reason: reason}
}

func AlreadyAssigned(reason string) *Error {
	return &Error{Kind: KindAlreadyAssigned, Reason: reason}
}

func MissingParticipant(reason string) *Error {
	return &Error{Kind: KindMissingParticipant, Reason: reason}
}

func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf("%s %s not found", entity, id)}
}

// BulkRejected reports a bulk operation refused before any write.
func BulkRejected(reason string, ids []string) *Error {
	return &Error{Kind: KindBulkRejected, Reason: fmt.Sprintf("%d %s", len(ids), reason), IDs: ids}
}

// Storage wraps an infrastructure failure. Typed errors pass through untouched
// so repositories can return already-classified errors.
func Storage(err error, msg string) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return err
	}
	return &Error{Kind: KindStorage, Reason: msg, Cause: errors.WithStack(err)}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

// ReasonOf returns the human-readable reason of err.
func ReasonOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) && typed.Reason != "" {
		return typed.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
