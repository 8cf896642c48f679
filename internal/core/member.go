package core

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// MemberKind distinguishes the interceptable member flavors.
type MemberKind int

const (
	// KindMethod is an ordinary method call.
	KindMethod MemberKind = iota
	// KindGetter is a property read.
	KindGetter
	// KindSetter is a property write.
	KindSetter
)

func (k MemberKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindGetter:
		return "getter"
	case KindSetter:
		return "setter"
	default:
		return "unknown"
	}
}

// MemberID is a stable token identifying an interceptable operation,
// independent of which concrete override was actually invoked.
type MemberID struct {
	Subject string
	Name    string
	Kind    MemberKind
}

func (id MemberID) String() string {
	switch id.Kind {
	case KindGetter:
		return fmt.Sprintf("%s.%s (get)", id.Subject, id.Name)
	case KindSetter:
		return fmt.Sprintf("%s.%s (set)", id.Subject, id.Name)
	default:
		return fmt.Sprintf("%s.%s", id.Subject, id.Name)
	}
}

// IdentityTable maps concrete override members to the canonical declared
// member they override, so an actual call resolved to the most-derived
// override matches an expectation declared against the base member. The
// proxy collaborator populates it; nothing here inspects types at runtime.
type IdentityTable struct {
	mu      sync.Mutex
	aliases map[MemberID]MemberID
}

// NewIdentityTable creates an empty identity table.
func NewIdentityTable() *IdentityTable {
	return &IdentityTable{aliases: make(map[MemberID]MemberID)}
}

// Alias records that the concrete member is an override of canonical.
func (t *IdentityTable) Alias(concrete, canonical MemberID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.aliases[concrete] = canonical
}

// Canonical resolves a member to its canonical declared identity, following
// override links. A member with no alias is its own canonical identity.
func (t *IdentityTable) Canonical(id MemberID) MemberID {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := 0

	for {
		canonical, ok := t.aliases[id]
		if !ok {
			return id
		}

		id = canonical

		// guard against accidental alias cycles
		seen++
		if seen > len(t.aliases) {
			return id
		}
	}
}

// Same reports whether two members share a canonical identity, treating an
// override and its base declaration as the same member.
func (t *IdentityTable) Same(a, b MemberID) bool {
	return t.Canonical(a) == t.Canonical(b)
}

// MemberInfo is the proxy-supplied metadata for one interceptable member.
// ParamCount counts non-output parameters only; output-style parameters are
// tracked via OutCount and never compared during resolution.
type MemberInfo struct {
	ID          MemberID
	ParamCount  int
	OutCount    int
	Returns     []reflect.Type
	HasBase     bool // a concrete, callable base implementation exists
	Overridable bool // the member can be intercepted at all
}

// CallPattern is the configuration side of a call descriptor: a member
// identity plus an ordered list of matchers for the non-output parameters.
// Output bindings are tracked separately and never filter resolution.
type CallPattern struct {
	Member      MemberID
	Matchers    []Matcher
	OutBindings []*OutBinding
}

// NewCallPattern splits out-binding matchers from positional ones and builds
// a pattern. Non-Matcher arguments become literal-equality matchers.
func NewCallPattern(member MemberID, args ...any) *CallPattern {
	pattern := &CallPattern{Member: member}

	for _, arg := range args {
		if binding, ok := arg.(*OutBinding); ok {
			pattern.OutBindings = append(pattern.OutBindings, binding)

			continue
		}

		if matcher, ok := arg.(Matcher); ok {
			pattern.Matchers = append(pattern.Matchers, matcher)

			continue
		}

		pattern.Matchers = append(pattern.Matchers, Eq(arg))
	}

	return pattern
}

// Signature returns the structural signature of the pattern: canonical member
// identity plus each matcher's shape key. Two patterns against the same member
// with structurally identical matchers collide; distinct shapes coexist.
func (p *CallPattern) Signature(ids *IdentityTable) string {
	var b strings.Builder

	canonical := p.Member
	if ids != nil {
		canonical = ids.Canonical(p.Member)
	}

	fmt.Fprintf(&b, "%s/%d|%s", canonical.Subject, canonical.Kind, canonical.Name)

	for _, m := range p.Matchers {
		b.WriteByte(0x1f)
		b.WriteString(shapeOf(m))
	}

	for _, binding := range p.OutBindings {
		b.WriteByte(0x1f)
		b.WriteString(binding.shapeKey())
	}

	return b.String()
}

// Render formats the pattern for diagnostics.
func (p *CallPattern) Render() string {
	parts := make([]string, 0, len(p.Matchers)+len(p.OutBindings))

	for _, m := range p.Matchers {
		parts = append(parts, describeMatcher(m))
	}

	for _, binding := range p.OutBindings {
		parts = append(parts, binding.String())
	}

	switch p.Member.Kind {
	case KindGetter:
		return p.Member.String()
	case KindSetter:
		return fmt.Sprintf("%s = %s", p.Member.String(), strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("%s(%s)", p.Member.String(), strings.Join(parts, ", "))
	}
}

// Invocation is the actual side of a call descriptor: a member identity
// resolved to its most-derived override, the concrete non-output argument
// values, and the output slots to be written back to the caller.
type Invocation struct {
	Member MemberID
	Args   []any
	Outs   []any
}

// Render formats the invocation for diagnostics.
func (inv *Invocation) Render() string {
	parts := make([]string, 0, len(inv.Args))
	for _, arg := range inv.Args {
		parts = append(parts, fmt.Sprintf("%#v", arg))
	}

	switch inv.Member.Kind {
	case KindGetter:
		return inv.Member.String()
	case KindSetter:
		return fmt.Sprintf("%s = %s", inv.Member.String(), strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("%s(%s)", inv.Member.String(), strings.Join(parts, ", "))
	}
}
