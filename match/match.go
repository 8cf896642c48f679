// Package match provides matchers for use with mimic stand-in expectations.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/mimictest/mimic/match"
//	)
//
//	standin.On("Save", BeAny).Return(nil)
package match

import (
	"cmp"

	"github.com/mimictest/mimic/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher = core.Matcher

// Bound flags for BeBetween.
const (
	Inclusive = core.Inclusive
	Exclusive = core.Exclusive
)

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = core.Any()

// BeAnyOf returns a matcher that matches any value of the declared type T.
func BeAnyOf[T any]() Matcher {
	return core.AnyOf[T]()
}

// Eql returns a matcher that matches values deeply equal to expected.
func Eql(expected any) Matcher {
	return core.Eq(expected)
}

// Satisfy returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not.
func Satisfy[T any](predicate func(T) error) Matcher {
	return core.Satisfies(predicate)
}

// BeWithin returns a matcher for ordered values in the closed interval
// [low, high]. Use BeBetween for per-bound control.
func BeWithin[T cmp.Ordered](low, high T) Matcher {
	return core.InRange(low, high, core.Inclusive, core.Inclusive)
}

// BeBetween returns a range matcher with explicit inclusive/exclusive
// flags per bound.
func BeBetween[T cmp.Ordered](low, high T, lowBound, highBound core.Bound) Matcher {
	return core.InRange(low, high, lowBound, highBound)
}

// MatchPattern returns a matcher testing textual values against a regular
// expression. Non-textual actual values fail closed.
func MatchPattern(pattern string) Matcher {
	return core.MatchesPattern(pattern)
}

// Out returns an output-binding matcher: it always matches and writes value
// back into the invocation's output slot at index.
func Out(index int, value any) Matcher {
	return core.Out(index, value)
}
