// Package muserr implements the typed error taxonomy from spec.md §7:
// every recoverable failure carries a Kind, human-readable details, and an
// optional source Range. Location is filled in at the innermost boundary
// that has one — Attach only sets a Range when the error doesn't already
// have one, so the deepest failure site wins.
package muserr

import (
	"fmt"

	"musique/internal/srcrange"
)

// Kind names one entry in the error taxonomy.
type Kind int

const (
	// Lexical
	UnrecognizedCharacter Kind = iota

	// Parsing
	UnexpectedEmptySource
	ExpectedExpressionSeparatorBefore
	ClosingTokenWithoutOpening
	LiteralAsIdentifier
	UnexpectedKeyword
	UndefinedOperator
	UnexpectedToken

	// Numeric
	FailedNumericParsing
	Arithmetic

	// Runtime
	MissingVariable
	NotCallable
	UnsupportedTypesFor
	WrongArityOf
	OutOfRange
	OperationRequiresMidiConnection

	// Control
	KeyboardInterrupt
)

var kindNames = map[Kind]string{
	UnrecognizedCharacter:             "unrecognized character",
	UnexpectedEmptySource:             "unexpected empty source",
	ExpectedExpressionSeparatorBefore: "expected expression separator",
	ClosingTokenWithoutOpening:        "closing token without opening",
	LiteralAsIdentifier:               "literal used as identifier",
	UnexpectedKeyword:                 "unexpected keyword",
	UndefinedOperator:                 "undefined operator",
	UnexpectedToken:                   "unexpected token",
	FailedNumericParsing:              "failed numeric parsing",
	Arithmetic:                        "arithmetic error",
	MissingVariable:                   "missing variable",
	NotCallable:                       "value is not callable",
	UnsupportedTypesFor:               "unsupported types",
	WrongArityOf:                      "wrong arity",
	OutOfRange:                        "out of range",
	OperationRequiresMidiConnection:   "operation requires a MIDI connection",
	KeyboardInterrupt:                 "interrupted",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "error"
}

// Error is musique's single error type. Details carries the kind-specific
// message; Range is the source span it happened at, if known; Signatures
// carries the accepted overload list for UnsupportedTypesFor errors.
type Error struct {
	Kind       Kind
	Details    string
	Range      srcrange.Range
	Signatures []string
}

func (e *Error) Error() string {
	if e.Details == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

// HasRange reports whether e already carries a source location.
func (e *Error) HasRange() bool {
	return !e.Range.IsZero()
}

// Attach sets e.Range to r only if e has no range yet, so the innermost
// failure site's location always wins over ones attached while unwinding.
func (e *Error) Attach(r srcrange.Range) *Error {
	if !e.HasRange() {
		e.Range = r
	}
	return e
}

// New constructs an Error of the given kind with a formatted detail string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Details: fmt.Sprintf(format, args...)}
}

// At is like New but attaches a Range immediately.
func At(r srcrange.Range, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Details: fmt.Sprintf(format, args...), Range: r}
}

// UnsupportedTypes builds an UnsupportedTypesFor error naming the operator
// or function and the accepted overload signatures.
func UnsupportedTypes(name string, got []string, signatures []string) *Error {
	return &Error{
		Kind:       UnsupportedTypesFor,
		Details:    fmt.Sprintf("%s does not accept (%s)", name, joinTypes(got)),
		Signatures: signatures,
	}
}

func joinTypes(ts []string) string {
	out := ""
	for i, t := range ts {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}

// As reports whether err is a *Error and, if so, returns it.
func As(err error) (*Error, bool) {
	e, ok := err.(*Error)
	return e, ok
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
