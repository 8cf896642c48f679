package core

import (
	"fmt"
	"reflect"
	"sync"
)

// TestReporter is the minimal interface this package needs from test
// frameworks. *testing.T satisfies it.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// memberSet holds the proxy-supplied metadata for a stand-in's members,
// keyed by canonical identity.
type memberSet struct {
	byID map[MemberID]*MemberInfo
}

func newMemberSet() *memberSet {
	return &memberSet{byID: make(map[MemberID]*MemberInfo)}
}

func (s *memberSet) add(info *MemberInfo) {
	s.byID[info.ID] = info
}

func (s *memberSet) lookup(id MemberID, ids *IdentityTable) *MemberInfo {
	if info, ok := s.byID[id]; ok {
		return info
	}

	canonical := ids.Canonical(id)
	if info, ok := s.byID[canonical]; ok {
		return info
	}

	return nil
}

// Standin is the engine behind one substitute object: its expectation
// registry, dispatcher, identity table, member metadata, and any owned
// sub-stand-ins materialized for chained member access.
//
// One test thread configures, exercises, and verifies a stand-in; the
// registry and counters carry no locking of their own. See Guarded for the
// opt-in serialized variant.
type Standin struct {
	subject    string
	mode       Mode
	t          TestReporter
	ids        *IdentityTable
	members    *memberSet
	registry   *Registry
	dispatcher *Dispatcher
	children   map[MemberID]*Standin
}

// NewStandin creates the engine for a stand-in over the named subject type.
func NewStandin(subject string, mode Mode, t TestReporter) *Standin {
	ids := NewIdentityTable()
	members := newMemberSet()
	registry := NewRegistry(ids)

	return &Standin{
		subject:    subject,
		mode:       mode,
		t:          t,
		ids:        ids,
		members:    members,
		registry:   registry,
		dispatcher: NewDispatcher(registry, members, mode),
		children:   make(map[MemberID]*Standin),
	}
}

// Subject returns the stand-in's subject type name.
func (s *Standin) Subject() string {
	return s.subject
}

// Identities returns the identity table so the proxy collaborator can record
// override aliases.
func (s *Standin) Identities() *IdentityTable {
	return s.ids
}

// Registry exposes the expectation registry for verification sweeps.
func (s *Standin) Registry() *Registry {
	return s.registry
}

// DescribeMethod records proxy-supplied metadata for a method member and
// returns its identity. returns holds the member's return types, used for
// default synthesis under the relaxed and loose modes.
func (s *Standin) DescribeMethod(
	name string, paramCount, outCount int, hasBase bool, returns ...reflect.Type,
) MemberID {
	id := MemberID{Subject: s.subject, Name: name, Kind: KindMethod}
	s.members.add(&MemberInfo{
		ID:          id,
		ParamCount:  paramCount,
		OutCount:    outCount,
		Returns:     returns,
		HasBase:     hasBase,
		Overridable: true,
	})

	return id
}

// DescribeProperty records metadata for a property. Readable properties get
// a getter member, writable ones a setter; configuring the missing side is a
// configuration error.
func (s *Standin) DescribeProperty(name string, typ reflect.Type, readable, writable bool) {
	if readable {
		s.members.add(&MemberInfo{
			ID:          MemberID{Subject: s.subject, Name: name, Kind: KindGetter},
			Returns:     []reflect.Type{typ},
			Overridable: true,
		})
	}

	if writable {
		s.members.add(&MemberInfo{
			ID:          MemberID{Subject: s.subject, Name: name, Kind: KindSetter},
			ParamCount:  1,
			Overridable: true,
		})
	}
}

// DescribeSealed records a member that exists but cannot be intercepted.
// Configuring an expectation against it is a programmer error.
func (s *Standin) DescribeSealed(name string) {
	id := MemberID{Subject: s.subject, Name: name, Kind: KindMethod}
	s.members.add(&MemberInfo{ID: id, Overridable: false})
}

// On registers an expectation for a method call. Arguments may be Matchers
// (including output bindings) or literal values, which match by deep
// equality. Registering a structurally identical pattern replaces the prior
// expectation; a distinct pattern adds a new one.
//
// Malformed configurations panic immediately, before any call can occur.
func (s *Standin) On(name string, args ...any) *Expectation {
	id := MemberID{Subject: s.subject, Name: name, Kind: KindMethod}
	pattern := NewCallPattern(id, args...)
	s.checkPattern(pattern)

	expectation := NewExpectation(pattern)
	s.registry.Register(expectation)

	return expectation
}

// OnGet registers an expectation for a property read.
func (s *Standin) OnGet(name string) *Expectation {
	id := MemberID{Subject: s.subject, Name: name, Kind: KindGetter}
	pattern := NewCallPattern(id)
	s.checkPattern(pattern)

	expectation := NewExpectation(pattern)
	s.registry.Register(expectation)

	return expectation
}

// OnSet registers an expectation for a property write matching the assigned
// value.
func (s *Standin) OnSet(name string, value any) *Expectation {
	id := MemberID{Subject: s.subject, Name: name, Kind: KindSetter}
	pattern := NewCallPattern(id, value)
	s.checkPattern(pattern)

	expectation := NewExpectation(pattern)
	s.registry.Register(expectation)

	return expectation
}

// checkPattern validates a configuration against the member metadata, when
// the proxy described the member. Violations are programmer errors.
func (s *Standin) checkPattern(pattern *CallPattern) {
	info := s.members.lookup(pattern.Member, s.ids)
	if info == nil {
		// A property described without this accessor is a read-only or
		// write-only misuse; anything else is a member the proxy simply has
		// not described yet, which is allowed.
		if sibling := s.propertySibling(pattern.Member); sibling != nil {
			panic(&ConfigError{
				Member: pattern.Member,
				Reason: fmt.Sprintf("property only supports %s access", sibling.ID.Kind),
			})
		}

		return
	}

	if !info.Overridable {
		panic(&ConfigError{Member: pattern.Member, Reason: "member is not overridable"})
	}

	if len(pattern.Matchers) != info.ParamCount {
		panic(&ConfigError{
			Member: pattern.Member,
			Reason: fmt.Sprintf(
				"matcher count %d does not equal non-output parameter count %d",
				len(pattern.Matchers), info.ParamCount,
			),
		})
	}

	for _, binding := range pattern.OutBindings {
		if binding.Index < 0 || binding.Index >= info.OutCount {
			panic(&ConfigError{
				Member: pattern.Member,
				Reason: fmt.Sprintf(
					"output binding index %d out of range (member has %d output slots)",
					binding.Index, info.OutCount,
				),
			})
		}
	}
}

// propertySibling returns the opposite accessor's metadata for a property
// member, or nil for methods and fully undescribed members.
func (s *Standin) propertySibling(id MemberID) *MemberInfo {
	switch id.Kind {
	case KindGetter:
		id.Kind = KindSetter
	case KindSetter:
		id.Kind = KindGetter
	default:
		return nil
	}

	return s.members.lookup(id, s.ids)
}

// Dispatch routes one intercepted call through the matching and execution
// pipeline.
func (s *Standin) Dispatch(inv *Invocation) Outcome {
	return s.dispatcher.Dispatch(inv)
}

// DispatchCall is the method-call convenience over Dispatch.
func (s *Standin) DispatchCall(name string, args ...any) Outcome {
	return s.Dispatch(&Invocation{
		Member: MemberID{Subject: s.subject, Name: name, Kind: KindMethod},
		Args:   args,
	})
}

// DispatchGet routes a property read.
func (s *Standin) DispatchGet(name string) Outcome {
	return s.Dispatch(&Invocation{
		Member: MemberID{Subject: s.subject, Name: name, Kind: KindGetter},
	})
}

// DispatchSet routes a property write.
func (s *Standin) DispatchSet(name string, value any) Outcome {
	return s.Dispatch(&Invocation{
		Member: MemberID{Subject: s.subject, Name: name, Kind: KindSetter},
		Args:   []any{value},
	})
}

// Child materializes (or returns) the owned sub-stand-in backing chained
// member access through the named member. Verifying the owner verifies every
// child transitively.
func (s *Standin) Child(name string) *Standin {
	id := MemberID{Subject: s.subject, Name: name, Kind: KindGetter}

	if child, ok := s.children[id]; ok {
		return child
	}

	child := NewStandin(s.subject+"."+name, s.mode, s.t)
	s.children[id] = child

	return child
}

// Children returns the owned sub-stand-ins.
func (s *Standin) Children() []*Standin {
	out := make([]*Standin, 0, len(s.children))
	for _, child := range s.children {
		out = append(out, child)
	}

	return out
}

// Verify checks every expectation matching the selector, on this stand-in
// and transitively on its children, and fails the test with one aggregated
// report when any are unmet.
func (s *Standin) Verify(selector Selector) {
	s.t.Helper()

	if err := Check(s, selector); err != nil {
		s.t.Fatalf("%v", err)
	}
}

// Guarded wraps a stand-in with a mutex so every configure, dispatch, and
// verify is serialized. This is the opt-in variant for callers that need
// multi-thread safety; the bare Standin explicitly does not guarantee it.
type Guarded struct {
	mu      sync.Mutex
	standin *Standin
}

// NewGuarded wraps the stand-in.
func NewGuarded(standin *Standin) *Guarded {
	return &Guarded{standin: standin}
}

// On registers an expectation under the guard.
func (g *Guarded) On(name string, args ...any) *Expectation {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.standin.On(name, args...)
}

// Dispatch routes one intercepted call under the guard.
func (g *Guarded) Dispatch(inv *Invocation) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.standin.Dispatch(inv)
}

// DispatchCall is the method-call convenience over Dispatch.
func (g *Guarded) DispatchCall(name string, args ...any) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.standin.DispatchCall(name, args...)
}

// Verify runs verification under the guard.
func (g *Guarded) Verify(selector Selector) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.standin.Verify(selector)
}
