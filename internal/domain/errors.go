package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindRuleViolation   ErrorKind = "rule_violation"
	// KindTransient marks store-level contention (busy/locked). Services
	// retry these internally; one escaping to a handler means retries ran out.
	KindTransient ErrorKind = "transient"
)

// Error is the single error type surfaced by services. Fields carries
// structured detail (missing ids, available vs requested stock) so the
// client can correct the request without guessing.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]any
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind ErrorKind, msg string, fields map[string]any) *Error {
	return &Error{Kind: kind, Message: msg, Fields: fields}
}

func Validation(msg string) *Error  { return newError(KindValidation, msg, nil) }
func NotFound(msg string) *Error    { return newError(KindNotFound, msg, nil) }
func Conflict(msg string) *Error    { return newError(KindConflict, msg, nil) }
func Forbidden(msg string) *Error   { return newError(KindForbidden, msg, nil) }
func Transient(msg string) *Error   { return newError(KindTransient, msg, nil) }
func Unauthenticated(msg string) *Error {
	return newError(KindUnauthenticated, msg, nil)
}

func RuleViolation(msg string, fields map[string]any) *Error {
	return newError(KindRuleViolation, msg, fields)
}

func ValidationF(msg string, fields map[string]any) *Error {
	return newError(KindValidation, msg, fields)
}

// KindOf classifies any error; non-domain errors report as "".
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool { return KindOf(err) == kind }
