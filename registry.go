package mimic

import "github.com/mimictest/mimic/internal/core"

// GetOrCreateGroup returns the stand-in group for the given test, creating
// one if needed. Multiple calls with the same TestReporter return the same
// group, which lets independently constructed stand-ins share one
// verification sweep.
func GetOrCreateGroup(t TestReporter) *Group {
	return core.GetOrCreateGroup(t)
}

// Track adds a stand-in to the test's shared group.
func Track(t TestReporter, standin *Standin) {
	core.GetOrCreateGroup(t).Add(standin)
}

// VerifyAll verifies every stand-in tracked under t, aggregating all unmet
// expectations into a single failure.
func VerifyAll(t TestReporter, selector Selector) {
	t.Helper()
	core.GetOrCreateGroup(t).VerifyAll(selector)
}
