package core

import "reflect"

// Mode is the behavior policy applied when no expectation matches a
// dispatched call.
type Mode int

const (
	// Strict fails every unmatched call.
	Strict Mode = iota
	// Normal falls through to a real base implementation when one exists,
	// and fails otherwise.
	Normal
	// Relaxed falls through when possible, synthesizes default values for
	// value-returning members, and fails only when no default can be built.
	Relaxed
	// Loose never fails an unmatched call: fall through, else defaults,
	// else void.
	Loose
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Normal:
		return "normal"
	case Relaxed:
		return "relaxed"
	case Loose:
		return "loose"
	default:
		return "unknown"
	}
}

// Dispatcher is the single entry point invoked per intercepted call. It
// resolves an expectation via the registry, executes it, and otherwise
// applies the configured behavior mode.
type Dispatcher struct {
	registry *Registry
	members  *memberSet
	mode     Mode
}

// NewDispatcher wires a dispatcher to its registry and member metadata.
func NewDispatcher(registry *Registry, members *memberSet, mode Mode) *Dispatcher {
	return &Dispatcher{registry: registry, members: members, mode: mode}
}

// Dispatch resolves and executes the invocation. The proxy collaborator must
// call this for every intercepted member access before any real
// implementation runs, and must surface the outcome to its caller unchanged,
// including any output-slot write-backs.
func (d *Dispatcher) Dispatch(inv *Invocation) Outcome {
	if expectation := d.registry.Resolve(inv); expectation != nil {
		return expectation.Execute(inv)
	}

	return d.unmatched(inv)
}

// unmatched applies the behavior mode to a call no expectation accepted.
func (d *Dispatcher) unmatched(inv *Invocation) Outcome {
	info := d.members.lookup(inv.Member, d.registry.ids)

	hasBase := info != nil && info.HasBase

	switch d.mode {
	case Strict:
		return failUnmatched(inv, d.mode)

	case Normal:
		if hasBase {
			return Outcome{Kind: OutcomeBase}
		}

		return failUnmatched(inv, d.mode)

	case Relaxed:
		if hasBase {
			return Outcome{Kind: OutcomeBase}
		}

		if info == nil {
			return failUnmatched(inv, d.mode)
		}

		if len(info.Returns) == 0 {
			return Outcome{Kind: OutcomeVoid}
		}

		return synthesize(info, inv)

	case Loose:
		if hasBase {
			return Outcome{Kind: OutcomeBase}
		}

		if info == nil || len(info.Returns) == 0 {
			return Outcome{Kind: OutcomeVoid}
		}

		return synthesize(info, inv)

	default:
		return failUnmatched(inv, d.mode)
	}
}

func failUnmatched(inv *Invocation, mode Mode) Outcome {
	return Outcome{Kind: OutcomePanic, PanicVal: &UnmatchedCallError{
		Call: inv.Render(),
		Mode: mode,
	}}
}

// synthesize builds zero-value defaults for every declared return type. A
// member declared to return values but with no known return types cannot be
// defaulted and fails with a return-value-required error.
func synthesize(info *MemberInfo, inv *Invocation) Outcome {
	if len(info.Returns) == 0 {
		return Outcome{Kind: OutcomePanic, PanicVal: &ReturnRequiredError{Call: inv.Render()}}
	}

	values := make([]any, len(info.Returns))
	for i, typ := range info.Returns {
		values[i] = reflect.Zero(typ).Interface()
	}

	return Outcome{Kind: OutcomeValues, Values: values}
}
