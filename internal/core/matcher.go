package core

import (
	"cmp"
	"fmt"
	"reflect"
	"regexp"
	"sync"

	gocmp "github.com/google/go-cmp/cmp"
)

// Matcher defines the interface for flexible argument matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// shaped is implemented by built-in matchers so the registry can compute a
// structural signature for a call pattern. Foreign matchers (gomega etc.)
// fall back to a rendering of their type and fields.
type shaped interface {
	shapeKey() string
}

// shapeOf returns the structural shape key for a matcher. The key combines a
// kind discriminator with the matcher's construction parameters, so two
// different matcher kinds never collide even when their parameters render
// identically.
func shapeOf(m Matcher) string {
	if s, ok := m.(shaped); ok {
		return s.shapeKey()
	}

	return fmt.Sprintf("ext:%T:%#v", m, m)
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	// Check if expected is a Matcher
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	// Fall back to reflect.DeepEqual for non-matchers
	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// diffValues renders the difference between two values. go-cmp panics on
// unexported fields without an option to allow them, so fall back to plain
// rendering when it can't compare the pair.
func diffValues(expected, actual any) (out string) {
	defer func() {
		if recover() != nil {
			out = fmt.Sprintf("expected %#v, got %#v", expected, actual)
		}
	}()

	diff := gocmp.Diff(expected, actual)
	if diff == "" {
		return fmt.Sprintf("expected %#v, got %#v", expected, actual)
	}

	return "diff (-expected +actual):\n" + diff
}

// Eq returns a matcher that matches values deeply equal to expected.
func Eq(expected any) Matcher {
	return eqMatcher{expected: expected}
}

type eqMatcher struct {
	expected any
}

func (m eqMatcher) Match(actual any) (bool, error) {
	return reflect.DeepEqual(actual, m.expected), nil
}

func (m eqMatcher) FailureMessage(actual any) string {
	return diffValues(m.expected, actual)
}

func (m eqMatcher) String() string {
	return fmt.Sprintf("eq(%#v)", m.expected)
}

func (m eqMatcher) shapeKey() string {
	return fmt.Sprintf("eq:%T:%#v", m.expected, m.expected)
}

// Any returns a matcher that matches any value.
// Useful when you don't care about a particular argument.
func Any() Matcher {
	return anyMatcher{}
}

// anyMatcher is the implementation of the Any() matcher.
type anyMatcher struct{}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

// FailureMessage returns an empty string since Any() always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) String() string {
	return "any"
}

func (anyMatcher) shapeKey() string {
	return "any"
}

// AnyOf returns a matcher that matches any value of the declared type T.
// A value of a different dynamic type does not match.
func AnyOf[T any]() Matcher {
	return anyOfMatcher[T]{}
}

type anyOfMatcher[T any] struct{}

func (anyOfMatcher[T]) Match(actual any) (bool, error) {
	_, ok := actual.(T)

	return ok, nil
}

func (anyOfMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %T, got %T", *new(T), actual)
}

func (anyOfMatcher[T]) String() string {
	return fmt.Sprintf("any(%T)", *new(T))
}

func (anyOfMatcher[T]) shapeKey() string {
	return fmt.Sprintf("any:%T", *new(T))
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
func Satisfies[T any](predicate func(T) error) Matcher {
	return &satisfiesMatcher[T]{predicate: predicate}
}

type satisfiesMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfiesMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfiesMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfiesMatcher[T]) String() string {
	return fmt.Sprintf("satisfies(func(%T) error)", *new(T))
}

// Same predicate registered twice is the same shape; distinct predicates
// against the same member coexist.
func (m *satisfiesMatcher[T]) shapeKey() string {
	return fmt.Sprintf("pred:%T:%x", *new(T), reflect.ValueOf(m.predicate).Pointer())
}

// Bound describes whether a range bound is inclusive or exclusive.
type Bound int

const (
	// Inclusive includes the bound value itself.
	Inclusive Bound = iota
	// Exclusive excludes the bound value itself.
	Exclusive
)

// InRange returns a matcher that matches ordered values between low and high.
// Each bound carries its own inclusive/exclusive flag; a value exactly equal
// to an exclusive bound does not match.
func InRange[T cmp.Ordered](low, high T, lowBound, highBound Bound) Matcher {
	return rangeMatcher[T]{low: low, high: high, lowBound: lowBound, highBound: highBound}
}

type rangeMatcher[T cmp.Ordered] struct {
	low, high           T
	lowBound, highBound Bound
}

func (m rangeMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)
	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	lowOK := val > m.low || (m.lowBound == Inclusive && val == m.low)
	highOK := val < m.high || (m.highBound == Inclusive && val == m.high)

	return lowOK && highOK, nil
}

func (m rangeMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("value %v is not within %s", actual, m.describeRange())
}

func (m rangeMatcher[T]) describeRange() string {
	open, closing := "[", "]"
	if m.lowBound == Exclusive {
		open = "("
	}

	if m.highBound == Exclusive {
		closing = ")"
	}

	return fmt.Sprintf("%s%v, %v%s", open, m.low, m.high, closing)
}

func (m rangeMatcher[T]) String() string {
	return "range" + m.describeRange()
}

func (m rangeMatcher[T]) shapeKey() string {
	return fmt.Sprintf("range:%T:%v:%v:%d:%d", m.low, m.low, m.high, m.lowBound, m.highBound)
}

// MatchesPattern returns a matcher that matches textual values against the
// given regular expression. Non-textual actual values fail closed (no match,
// no error). An invalid pattern is a programmer error and panics at
// configuration time.
func MatchesPattern(pattern string) Matcher {
	return patternMatcher{re: regexp.MustCompile(pattern)}
}

type patternMatcher struct {
	re *regexp.Regexp
}

func (m patternMatcher) Match(actual any) (bool, error) {
	text, ok := textOf(actual)
	if !ok {
		return false, nil
	}

	return m.re.MatchString(text), nil
}

func (m patternMatcher) FailureMessage(actual any) string {
	if _, ok := textOf(actual); !ok {
		return fmt.Sprintf("value %v (%T) is not textual", actual, actual)
	}

	return fmt.Sprintf("value %v does not match pattern %q", actual, m.re.String())
}

func (m patternMatcher) String() string {
	return fmt.Sprintf("pattern(%q)", m.re.String())
}

func (m patternMatcher) shapeKey() string {
	return "re:" + m.re.String()
}

// textOf extracts a string from textual actual values.
func textOf(actual any) (string, bool) {
	switch v := actual.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return "", false
	}
}

// Out returns an output-binding matcher for the output slot at the given
// index. It is not a filter - it always matches - and carries the value the
// expectation writes back into the invocation's output slot on execution.
func Out(index int, value any) Matcher {
	return &OutBinding{Index: index, Value: value}
}

// OutBinding always matches and binds Value to output slot Index.
type OutBinding struct {
	Index int
	Value any
}

func (*OutBinding) Match(any) (bool, error) {
	return true, nil
}

func (*OutBinding) FailureMessage(any) string {
	return ""
}

func (b *OutBinding) String() string {
	return fmt.Sprintf("out(%d=%#v)", b.Index, b.Value)
}

func (b *OutBinding) shapeKey() string {
	return fmt.Sprintf("out:%d:%T:%#v", b.Index, b.Value, b.Value)
}

// MatcherConstructor builds a matcher from configuration-time arguments.
type MatcherConstructor func(args ...any) (Matcher, error)

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level table is intentional for matcher extension
	matcherKinds = make(map[string]MatcherConstructor)
	//nolint:gochecknoglobals // Mutex for table
	matcherKindsMu sync.Mutex
)

// RegisterMatcherKind registers a matcher constructor under a kind tag, so a
// descriptor-extraction collaborator can plug in matcher implementations
// without modifying this package. Registering an existing tag replaces the
// prior constructor.
func RegisterMatcherKind(tag string, ctor MatcherConstructor) {
	matcherKindsMu.Lock()
	defer matcherKindsMu.Unlock()

	matcherKinds[tag] = ctor
}

// CustomMatcher instantiates a matcher previously registered under the given
// kind tag. An unknown tag or a failing constructor is a configuration-time
// programmer error and panics.
func CustomMatcher(tag string, args ...any) Matcher {
	matcherKindsMu.Lock()
	ctor, ok := matcherKinds[tag]
	matcherKindsMu.Unlock()

	if !ok {
		panic(fmt.Sprintf("mimic: no matcher kind registered for tag %q", tag))
	}

	inner, err := ctor(args...)
	if err != nil {
		panic(fmt.Sprintf("mimic: constructing matcher kind %q: %v", tag, err))
	}

	return customMatcher{tag: tag, args: args, inner: inner}
}

type customMatcher struct {
	tag   string
	args  []any
	inner Matcher
}

func (m customMatcher) Match(actual any) (bool, error) {
	return m.inner.Match(actual)
}

func (m customMatcher) FailureMessage(actual any) string {
	return m.inner.FailureMessage(actual)
}

func (m customMatcher) String() string {
	return fmt.Sprintf("%s(%v)", m.tag, m.args)
}

func (m customMatcher) shapeKey() string {
	return fmt.Sprintf("custom:%s:%#v", m.tag, m.args)
}

// describeMatcher renders a matcher for diagnostics. Built-in matchers
// implement fmt.Stringer; foreign ones render as their type.
func describeMatcher(m Matcher) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("<%T>", m)
}
