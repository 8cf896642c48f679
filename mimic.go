// Package mimic provides the call-interception and expectation-matching
// engine for test doubles: substitute a real dependency with a programmable
// stand-in, declare expected interactions with it, and later assert which
// interactions actually occurred.
//
// This is the public API entry point. Implementation lives in internal/core.
package mimic

import (
	"cmp"
	"reflect"

	"github.com/mimictest/mimic/internal/core"
)

// Matcher defines the interface for flexible argument matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher = core.Matcher

// MatcherConstructor builds a matcher from configuration-time arguments.
type MatcherConstructor = core.MatcherConstructor

// OutBinding always matches and carries a value written back into an
// output-style parameter slot.
type OutBinding = core.OutBinding

// Bound describes whether a range bound is inclusive or exclusive.
type Bound = core.Bound

// Bound flags for InRange.
const (
	Inclusive = core.Inclusive
	Exclusive = core.Exclusive
)

// MemberID is a stable token identifying an interceptable operation.
type MemberID = core.MemberID

// MemberKind distinguishes method calls, property reads, and property writes.
type MemberKind = core.MemberKind

// Member kinds.
const (
	KindMethod = core.KindMethod
	KindGetter = core.KindGetter
	KindSetter = core.KindSetter
)

// IdentityTable maps concrete override members to their canonical declared
// members.
type IdentityTable = core.IdentityTable

// CallPattern is the configuration side of a call descriptor.
type CallPattern = core.CallPattern

// Invocation is the actual side of a call descriptor.
type Invocation = core.Invocation

// Expectation pairs a call pattern with a behavior and a cardinality rule.
type Expectation = core.Expectation

// EventTarget receives a synthesized event argument.
type EventTarget = core.EventTarget

// Outcome is the result of a dispatched call.
type Outcome = core.Outcome

// OutcomeKind discriminates dispatch outcomes.
type OutcomeKind = core.OutcomeKind

// Dispatch outcomes.
const (
	OutcomeVoid   = core.OutcomeVoid
	OutcomeValues = core.OutcomeValues
	OutcomePanic  = core.OutcomePanic
	OutcomeBase   = core.OutcomeBase
)

// Mode is the behavior policy applied when no expectation matches.
type Mode = core.Mode

// Behavior modes, in escalating leniency.
const (
	Strict  = core.Strict
	Normal  = core.Normal
	Relaxed = core.Relaxed
	Loose   = core.Loose
)

// Selector picks which expectations a verification sweep inspects.
type Selector = core.Selector

// Verification selectors.
const (
	SelectAll        = core.SelectAll
	SelectVerifiable = core.SelectVerifiable
)

// Standin is the engine behind one substitute object.
type Standin = core.Standin

// Guarded is the mutex-serialized stand-in variant for multi-thread use.
type Guarded = core.Guarded

// Group is a factory-style collection of stand-ins verified together.
type Group = core.Group

// Registry is the ordered expectation collection behind a stand-in.
type Registry = core.Registry

// TestReporter is the minimal interface mimic needs from test frameworks.
type TestReporter = core.TestReporter

// Error types surfaced by dispatch and verification.
type (
	// UnmatchedCallError is the outcome of an unmatched call under a
	// failing behavior mode.
	UnmatchedCallError = core.UnmatchedCallError
	// ReturnRequiredError is the outcome of an unmatched value-returning
	// call whose default cannot be synthesized.
	ReturnRequiredError = core.ReturnRequiredError
	// CardinalityError surfaces on the violating call itself.
	CardinalityError = core.CardinalityError
	// ConfigError describes a malformed configuration.
	ConfigError = core.ConfigError
	// VerificationError aggregates all unmet expectations into one report.
	VerificationError = core.VerificationError
)

// New creates a stand-in engine over the named subject type.
func New(subject string, mode Mode, t TestReporter) *Standin {
	return core.NewStandin(subject, mode, t)
}

// NewGuarded wraps a stand-in with a mutex for multi-thread use.
func NewGuarded(standin *Standin) *Guarded {
	return core.NewGuarded(standin)
}

// NewGroup creates an empty stand-in group reporting to t.
func NewGroup(t TestReporter) *Group {
	return core.NewGroup(t)
}

// NewIdentityTable creates an empty identity table.
func NewIdentityTable() *IdentityTable {
	return core.NewIdentityTable()
}

// Check scans the stand-in under the selector and returns the aggregated
// verification error, or nil.
func Check(standin *Standin, selector Selector) error {
	return core.Check(standin, selector)
}

// MatchValue checks if actual matches expected, treating a Matcher expected
// value as a predicate and anything else as a deep-equality literal.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// Any returns a matcher that matches any value.
func Any() Matcher {
	return core.Any()
}

// AnyOf returns a matcher that matches any value of the declared type T.
func AnyOf[T any]() Matcher {
	return core.AnyOf[T]()
}

// Eq returns a matcher that matches values deeply equal to expected.
func Eq(expected any) Matcher {
	return core.Eq(expected)
}

// Satisfies returns a matcher that uses a predicate function to check for a
// match.
func Satisfies[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// InRange returns a matcher for ordered values between low and high, with
// per-bound inclusive/exclusive flags.
func InRange[T cmp.Ordered](low, high T, lowBound, highBound Bound) Matcher {
	return core.InRange(low, high, lowBound, highBound)
}

// MatchesPattern returns a matcher testing textual values against a regular
// expression. Non-textual values fail closed.
func MatchesPattern(pattern string) Matcher {
	return core.MatchesPattern(pattern)
}

// Out returns an output-binding matcher for the output slot at index.
func Out(index int, value any) Matcher {
	return core.Out(index, value)
}

// RegisterMatcherKind registers a matcher constructor under a kind tag.
func RegisterMatcherKind(tag string, ctor MatcherConstructor) {
	core.RegisterMatcherKind(tag, ctor)
}

// CustomMatcher instantiates a matcher registered under the given kind tag.
func CustomMatcher(tag string, args ...any) Matcher {
	return core.CustomMatcher(tag, args...)
}

// ReturnTypes is a convenience for describing member return types to a
// stand-in.
func ReturnTypes(examples ...any) []reflect.Type {
	types := make([]reflect.Type, len(examples))
	for i, example := range examples {
		types[i] = reflect.TypeOf(example)
	}

	return types
}
