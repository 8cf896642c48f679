package core

// Registry is an ordered collection of expectations keyed by the structural
// signature of their call patterns. Registration order is the resolution
// tie-break: the first registered expectation that matches an invocation
// wins. Registering a pattern whose signature collides with an existing one
// replaces that expectation, so the newest behavior wins for identical call
// shapes without an explicit removal operation.
//
// The registry is ordinary mutable state with no locking; one test thread
// configures, exercises, and verifies. Callers needing multi-thread safety
// wrap the owning stand-in with Guarded.
type Registry struct {
	ids   *IdentityTable
	order []*Expectation
	index map[string]int
}

// NewRegistry creates an empty registry resolving member identity through
// the given table.
func NewRegistry(ids *IdentityTable) *Registry {
	return &Registry{
		ids:   ids,
		index: make(map[string]int),
	}
}

// Register adds the expectation, or replaces the existing one registered
// with a structurally identical pattern.
func (r *Registry) Register(expectation *Expectation) {
	sig := expectation.Pattern().Signature(r.ids)

	if pos, ok := r.index[sig]; ok {
		r.order[pos] = expectation

		return
	}

	r.index[sig] = len(r.order)
	r.order = append(r.order, expectation)
}

// Resolve scans registered expectations in registration order and returns
// the first whose member identity matches the invocation (treating an
// override and its base declaration as the same member), whose matcher count
// equals the actual non-output argument count, and whose every positional
// matcher accepts the corresponding actual value. Returns nil when nothing
// matches; there is no partial or best-effort scoring.
func (r *Registry) Resolve(inv *Invocation) *Expectation {
	for _, expectation := range r.order {
		pattern := expectation.Pattern()

		if !r.ids.Same(pattern.Member, inv.Member) {
			continue
		}

		if len(pattern.Matchers) != len(inv.Args) {
			continue
		}

		if matchesAll(pattern.Matchers, inv.Args) {
			return expectation
		}
	}

	return nil
}

// All returns the registered expectations in order, for verification sweeps.
func (r *Registry) All() []*Expectation {
	return r.order
}

func matchesAll(matchers []Matcher, args []any) bool {
	for i, matcher := range matchers {
		ok, err := matcher.Match(args[i])
		if err != nil || !ok {
			return false
		}
	}

	return true
}
