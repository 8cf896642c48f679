package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// UnmatchedCallError is the dispatch outcome for a call no expectation
// matched, under a behavior mode that does not permit fall-through or
// default synthesis. It propagates synchronously to the intercepted call's
// caller, exactly as a directly raised error would.
type UnmatchedCallError struct {
	Call string
	Mode Mode
}

func (e *UnmatchedCallError) Error() string {
	return fmt.Sprintf("no expectation matches call %s (behavior mode %s)", e.Call, e.Mode)
}

// ReturnRequiredError is the dispatch outcome for an unmatched value-returning
// call whose default value cannot be synthesized.
type ReturnRequiredError struct {
	Call string
}

func (e *ReturnRequiredError) Error() string {
	return fmt.Sprintf("call %s requires a configured return value", e.Call)
}

// CardinalityError surfaces at the moment a violating call occurs, not at
// verification time.
type CardinalityError struct {
	Call     string
	Rule     string
	Observed int
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("call %s violates cardinality %s (observed %d)", e.Call, e.Rule, e.Observed)
}

// ConfigError describes a malformed configuration: matcher count mismatch,
// unknown or non-overridable member, read-only/write-only property misuse.
// These are programmer errors, surfaced by panic at configuration time.
type ConfigError struct {
	Member MemberID
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bad configuration for %s: %s", e.Member, e.Reason)
}

// VerificationError aggregates every unmet expectation into one report, so a
// single failing run names all of them rather than just the first.
type VerificationError struct {
	Subject  string
	Unmet    []string
	Expected []string
	Observed []string
}

func (e *VerificationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %d unmet expectation(s):\n", e.Subject, len(e.Unmet))

	for _, line := range e.Unmet {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	diff := textdiff.Unified(
		"expected interactions",
		"observed interactions",
		strings.Join(e.Expected, "\n")+"\n",
		strings.Join(e.Observed, "\n")+"\n",
	)
	if diff != "" {
		b.WriteString(diff)
	}

	return strings.TrimRight(b.String(), "\n")
}
