package core

import (
	"errors"
	"strings"
	"sync"
)

// Group is a factory-style collection of stand-ins verified together. A
// single failing run reports every unmet expectation across the whole group,
// not just the first encountered.
type Group struct {
	t        TestReporter
	standins []*Standin
}

// NewGroup creates an empty group reporting to t.
func NewGroup(t TestReporter) *Group {
	return &Group{t: t}
}

// Make creates a stand-in over the named subject, adds it to the group, and
// returns it.
func (g *Group) Make(subject string, mode Mode) *Standin {
	standin := NewStandin(subject, mode, g.t)
	g.standins = append(g.standins, standin)

	return standin
}

// Add tracks an externally created stand-in.
func (g *Group) Add(standin *Standin) {
	g.standins = append(g.standins, standin)
}

// CheckAll aggregates verification failures across every stand-in in the
// group into a single error.
func (g *Group) CheckAll(selector Selector) error {
	var failures []string

	for _, standin := range g.standins {
		if err := Check(standin, selector); err != nil {
			failures = append(failures, err.Error())
		}
	}

	if len(failures) == 0 {
		return nil
	}

	return errors.New(strings.Join(failures, "\n"))
}

// VerifyAll fails the test with the aggregated report when any stand-in in
// the group has unmet expectations.
func (g *Group) VerifyAll(selector Selector) {
	g.t.Helper()

	if err := g.CheckAll(selector); err != nil {
		g.t.Fatalf("%v", err)
	}
}

// GetOrCreateGroup returns the Group for the given test, creating one if
// needed. Multiple calls with the same TestReporter return the same Group,
// which lets independently constructed stand-ins share one verification
// sweep.
//
// If the TestReporter supports Cleanup (like *testing.T), the group is
// removed from the registry when the test completes.
func GetOrCreateGroup(t TestReporter) *Group {
	groupsMu.Lock()
	defer groupsMu.Unlock()

	if group, ok := groups[t]; ok {
		return group
	}

	group := NewGroup(t)
	groups[t] = group

	// Register cleanup if the TestReporter supports it
	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			groupsMu.Lock()
			delete(groups, t)
			groupsMu.Unlock()
		})
	}

	return group
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	groups = make(map[TestReporter]*Group)
	//nolint:gochecknoglobals // Mutex for registry
	groupsMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
