package xmlerr

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the error taxonomy used across the xmlinput packages.
type Kind int

const (
	// EndOfInput marks normal stream termination. Callers rarely see
	// it as a returned error; it is more commonly observed via
	// line.Reader.Done returning true.
	EndOfInput Kind = iota
	// AllocationFailure is a sticky error set when the scratch buffer
	// or attribute index could not be grown. The stream behaves as
	// done from that point on.
	AllocationFailure
	// MalformedAttribute marks a per-line attribute-parsing failure.
	// Attributes already parsed before the failure remain valid; the
	// line is still usable as text.
	MalformedAttribute
	// PatternSyntaxError marks a malformed scan format string, which
	// is a bug in the caller rather than bad input data.
	PatternSyntaxError
	// MatchFailure marks a structural mismatch above the line level,
	// such as an unmatched closing tag or a run of markup that never
	// closes, found by a caller walking a stream of classified lines
	// (see query.Build).
	MatchFailure
)

func (k Kind) String() string {
	switch k {
	case EndOfInput:
		return "end-of-input"
	case AllocationFailure:
		return "allocation-failure"
	case MalformedAttribute:
		return "malformed-attribute"
	case PatternSyntaxError:
		return "pattern-syntax-error"
	case MatchFailure:
		return "match-failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k *Kind) UnmarshalText(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "end-of-input":
		*k = EndOfInput
	case "allocation-failure":
		*k = AllocationFailure
	case "malformed-attribute":
		*k = MalformedAttribute
	case "pattern-syntax-error":
		*k = PatternSyntaxError
	case "match-failure":
		*k = MatchFailure
	default:
		return errors.New("xmlerr: unknown kind")
	}
	return nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Error is the concrete error type returned by the xmlinput packages
// when a Kind needs more context than a sticky boolean can carry.
type Error struct {
	Kind     Kind
	Op       string // the operation that failed, e.g. "line.Reader.fill"
	Lineno   int    // 1-based line number, 0 if not applicable
	Position int    // byte offset (within the line, or the stream position for line.Reader), -1 if not applicable
	Message  string
	cause    error
}

// Option configures an *Error when constructing it with New or Wrap.
type Option func(*Error)

// WithMessage attaches a human-readable detail to the error.
func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }

// WithLine records the 1-based line number where the error occurred.
func WithLine(lineno int) Option { return func(e *Error) { e.Lineno = lineno } }

// WithPosition records the byte offset where the error occurred: within
// the line for attribute errors, or the stream position for line.Reader.
func WithPosition(pos int) Option { return func(e *Error) { e.Position = pos } }

// New builds an *Error of the given Kind for the named operation.
func New(op string, kind Kind, opts ...Option) *Error {
	e := &Error{Op: op, Kind: kind, Position: -1}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Wrap builds an *Error of the given Kind that records cause as its
// underlying error, preserving a stack trace via github.com/pkg/errors.
func Wrap(cause error, op string, kind Kind, opts ...Option) *Error {
	e := New(op, kind, opts...)
	if cause != nil {
		e.cause = errors.WithStack(cause)
	}
	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Lineno > 0 {
		s += fmt.Sprintf(" at line %d", e.Lineno)
	}
	if e.Position >= 0 {
		s += fmt.Sprintf(" offset %d", e.Position)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, xmlerr.New("", xmlerr.AllocationFailure)) works as a
// kind test without comparing Op/Message/cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
