// Package shellerr holds the closed set of errors the shell core reports to
// its callers.
package shellerr

import (
	"errors"
	"fmt"
)

// Kind is the class of a failure. Every Error belongs to exactly one Kind.
type Kind int

const (
	KindParse Kind = iota + 1
	KindPolicy
	KindResourceLimit
	KindFileSystem
	KindProcessExecution
	KindProcess
)

var kindNames = map[Kind]string{
	KindParse:            "parse error",
	KindPolicy:           "policy violation",
	KindResourceLimit:    "resource limit exceeded",
	KindFileSystem:       "file system error",
	KindProcessExecution: "execution failed",
	KindProcess:          "process error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error implements error so a Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// Kind sentinels for errors.Is.
var (
	ErrParse            error = KindParse
	ErrPolicy           error = KindPolicy
	ErrResourceLimit    error = KindResourceLimit
	ErrFileSystem       error = KindFileSystem
	ErrProcessExecution error = KindProcessExecution
	ErrProcess          error = KindProcess
)

// Rule names the specific check that produced an error.
type Rule string

const (
	EmptyCommand   Rule = "empty command"
	MissingOperand Rule = "missing operand"
	NoCommand      Rule = "no command"

	DangerousCommand   Rule = "dangerous command"
	DangerousCharacter Rule = "dangerous character"
	TooManyArguments   Rule = "too many arguments"
	ArgumentTooLong    Rule = "argument too long"
	PathTraversal      Rule = "path traversal"
	InvalidInput       Rule = "invalid input"
	PermissionDenied   Rule = "permission denied"

	ProcessLimit    Rule = "process limit"
	RateLimit       Rule = "rate limit"
	PipelineTooLong Rule = "pipeline too long"
	Timeout         Rule = "timeout"
	OutputTooLarge  Rule = "output too large"
	SpawnThrottle   Rule = "spawn throttle"

	OpenFailed  Rule = "open failed"
	SpawnFailed Rule = "spawn failed"
	WaitFailed  Rule = "wait failed"
)

// Error implements error so a Rule can be used as an errors.Is target.
func (r Rule) Error() string {
	return string(r)
}

// Error is a failure reported by the parser, policy engine or executor.
type Error struct {
	Kind Kind
	Rule Rule
	// Subject is the command, argument, path or key the rule rejected.
	Subject string
	// Detail is an optional human readable qualifier.
	Detail string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Rule)
	if e.Subject != "" {
		msg += fmt.Sprintf(": %q", e.Subject)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error's Kind and Rule in addition to the wrapped cause.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case Rule:
		return e.Rule == t
	}
	return false
}

// New creates an Error with the given kind, rule and subject.
func New(kind Kind, rule Rule, subject string) *Error {
	return &Error{Kind: kind, Rule: rule, Subject: subject}
}

// Newf creates an Error with a formatted detail message.
func Newf(kind Kind, rule Rule, subject string, format string, a ...interface{}) *Error {
	return &Error{Kind: kind, Rule: rule, Subject: subject, Detail: fmt.Sprintf(format, a...)}
}

// Wrap creates an Error caused by err.
func Wrap(kind Kind, rule Rule, subject string, err error) *Error {
	return &Error{Kind: kind, Rule: rule, Subject: subject, Err: err}
}

// Policy creates a policy violation.
func Policy(rule Rule, subject string) *Error {
	return New(KindPolicy, rule, subject)
}

// ResourceLimit creates a resource limit failure.
func ResourceLimit(rule Rule, subject string) *Error {
	return New(KindResourceLimit, rule, subject)
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// RuleOf returns the Rule of err, or "" if err is not an *Error.
func RuleOf(err error) Rule {
	var se *Error
	if errors.As(err, &se) {
		return se.Rule
	}
	return ""
}
