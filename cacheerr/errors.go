// Package cacheerr holds the named error kinds reported by dualcache and
// its policy/index subpackages. Every other failure mode (missing key,
// missing index entry, nil value) is not an error: it is surfaced as an
// "absent" zero value/bool pair by the caller-facing API.
package cacheerr

import "fmt"

// Kind identifies which of the three named error conditions occurred.
type Kind uint8

const (
	// IllegalIteratorState is reported when Remove is called on a
	// collection-view iterator before any successful Next, immediately
	// after a reclaim-induced skip, or twice for the same step.
	IllegalIteratorState Kind = iota
	// IllegalArgument is reported when a policy is constructed with
	// out-of-range parameters (softness outside [0,1], minHard >
	// maxHard, a negative minHard in policy/fraction, or a negative
	// MaxHard in policy/lfu). Negative MaxHard/MaxSoft values in
	// policy/fraction, and a negative MaxSoft in policy/lfu, are not
	// rejected: they mean "unbounded".
	IllegalArgument
	// AttributeConflict is reported when registering a unique index
	// whose attribute maps two distinct live cells to the same
	// derived key.
	AttributeConflict
)

func (k Kind) String() string {
	switch k {
	case IllegalIteratorState:
		return "illegal iterator state"
	case IllegalArgument:
		return "illegal argument"
	case AttributeConflict:
		return "attribute conflict"
	default:
		return "unknown cacheerr kind"
	}
}

// Error is the concrete error type for all three named kinds. It is
// comparable via errors.Is against the Err* sentinels below,
// and carries a free-form message for the immediate caller.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is reports whether target is a *Error of the same Kind, so callers can
// write errors.Is(err, cacheerr.ErrIllegalIteratorState) style checks
// against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons. Construct new occurrences with
// NewIllegalIteratorState/NewIllegalArgument/NewAttributeConflict so the
// message stays specific to the call site.
var (
	ErrIllegalIteratorState = &Error{Kind: IllegalIteratorState}
	ErrIllegalArgument      = &Error{Kind: IllegalArgument}
	ErrAttributeConflict    = &Error{Kind: AttributeConflict}
)

// NewIllegalIteratorState builds an IllegalIteratorState error with a
// message describing what the iterator was doing.
func NewIllegalIteratorState(msg string) error {
	return &Error{Kind: IllegalIteratorState, Msg: msg}
}

// NewIllegalArgument builds an IllegalArgument error.
func NewIllegalArgument(msg string) error {
	return &Error{Kind: IllegalArgument, Msg: msg}
}

// NewAttributeConflict builds an AttributeConflict error.
func NewAttributeConflict(msg string) error {
	return &Error{Kind: AttributeConflict, Msg: msg}
}
