package core

import (
	"fmt"
	"reflect"
)

// OutcomeKind discriminates the possible results of a dispatched call.
type OutcomeKind int

const (
	// OutcomeVoid means the call completes with no values.
	OutcomeVoid OutcomeKind = iota
	// OutcomeValues means the call completes with return values.
	OutcomeValues
	// OutcomePanic means the call raises; the proxy must surface the value
	// to its caller unchanged, as a panic.
	OutcomePanic
	// OutcomeBase instructs the proxy to fall through to the real base
	// implementation.
	OutcomeBase
)

// Outcome is what the proxy collaborator surfaces to the intercepted call's
// caller.
type Outcome struct {
	Kind     OutcomeKind
	Values   []any
	PanicVal any
}

// CardinalityKind enumerates the supported invocation-count rules.
type CardinalityKind int

const (
	// CardinalityUnbounded allows any number of invocations.
	CardinalityUnbounded CardinalityKind = iota
	// CardinalityOnce allows exactly one invocation.
	CardinalityOnce
	// CardinalityTimes allows exactly N invocations.
	CardinalityTimes
	// CardinalityNever forbids any invocation.
	CardinalityNever
)

// Cardinality is an expectation's invocation-count rule.
type Cardinality struct {
	Kind CardinalityKind
	N    int
}

func (c Cardinality) String() string {
	switch c.Kind {
	case CardinalityOnce:
		return "exactly once"
	case CardinalityTimes:
		return fmt.Sprintf("exactly %d times", c.N)
	case CardinalityNever:
		return "never"
	default:
		return "unbounded"
	}
}

// violated reports whether the rule is broken at the given invocation count.
// Violations surface on the offending call itself: an exactly-once
// expectation invoked twice fails on the second invocation, not before.
func (c Cardinality) violated(count int) bool {
	switch c.Kind {
	case CardinalityOnce:
		return count > 1
	case CardinalityTimes:
		return count > c.N
	case CardinalityNever:
		return count > 0
	default:
		return false
	}
}

// EventTarget receives a synthesized event argument.
type EventTarget func(arg any)

// Expectation pairs a call pattern with a behavior and a cardinality rule,
// plus the state observed while the stand-in is exercised. It is created at
// configuration time, mutated only by configuration calls and by Execute,
// and lives as long as its registry.
type Expectation struct {
	pattern     *CallPattern
	cardinality Cardinality

	callback      func(args []any)
	panicVal      any
	hasPanic      bool
	returnVals    []any
	hasReturn     bool
	returnFn      func() []any
	eventTarget   EventTarget
	eventProducer any

	count      int
	invoked    bool
	verifiable bool
}

// NewExpectation creates an unbounded, behavior-less expectation for the
// given pattern.
func NewExpectation(pattern *CallPattern) *Expectation {
	return &Expectation{pattern: pattern}
}

// Pattern returns the configured call pattern.
func (e *Expectation) Pattern() *CallPattern {
	return e.pattern
}

// Count returns how many times the expectation has been executed past its
// short-circuiting behaviors.
func (e *Expectation) Count() int {
	return e.count
}

// Invoked reports whether the expectation was ever executed.
func (e *Expectation) Invoked() bool {
	return e.invoked
}

// IsVerifiable reports whether the expectation participates in
// verifiable-only verification sweeps.
func (e *Expectation) IsVerifiable() bool {
	return e.verifiable
}

// Once restricts the expectation to exactly one invocation.
func (e *Expectation) Once() *Expectation {
	e.cardinality = Cardinality{Kind: CardinalityOnce}

	return e
}

// Times restricts the expectation to exactly n invocations.
func (e *Expectation) Times(n int) *Expectation {
	e.cardinality = Cardinality{Kind: CardinalityTimes, N: n}

	return e
}

// Never fails the test the moment the expectation is invoked at all.
func (e *Expectation) Never() *Expectation {
	e.cardinality = Cardinality{Kind: CardinalityNever}

	return e
}

// Verifiable marks the expectation for verifiable-only verification sweeps.
func (e *Expectation) Verifiable() *Expectation {
	e.verifiable = true

	return e
}

// Call configures a side-effecting callback, run with the actual argument
// values before any other behavior.
func (e *Expectation) Call(callback func(args []any)) *Expectation {
	e.callback = callback

	return e
}

// Panic configures the call outcome to be the given value, raised
// immediately and short-circuiting every later execution step.
func (e *Expectation) Panic(value any) *Expectation {
	e.panicVal = value
	e.hasPanic = true

	return e
}

// Return configures literal return values.
func (e *Expectation) Return(values ...any) *Expectation {
	e.returnVals = values
	e.hasReturn = true
	e.returnFn = nil

	return e
}

// ReturnFunc configures a value-producing function, evaluated lazily at each
// execution, never at configuration time and never memoized.
func (e *Expectation) ReturnFunc(produce func() []any) *Expectation {
	e.returnFn = produce
	e.hasReturn = true
	e.returnVals = nil

	return e
}

// Raise configures synthetic event emission: producer computes the event
// argument (it may take zero, one, or several of the actual call's arguments
// as input) and the result is delivered to target.
func (e *Expectation) Raise(target EventTarget, producer any) *Expectation {
	if producer != nil && reflect.TypeOf(producer).Kind() != reflect.Func {
		panic(&ConfigError{Member: e.pattern.Member, Reason: "event producer must be a function"})
	}

	e.eventTarget = target
	e.eventProducer = producer

	return e
}

// Execute runs the expectation's configured behavior against one actual
// invocation and returns the call outcome. Output-binding values are written
// to the invocation's output slots first, independent of anything else.
func (e *Expectation) Execute(inv *Invocation) Outcome {
	for _, binding := range e.pattern.OutBindings {
		if binding.Index >= 0 && binding.Index < len(inv.Outs) {
			inv.Outs[binding.Index] = binding.Value
		}
	}

	e.invoked = true

	if e.callback != nil {
		e.callback(inv.Args)
	}

	// A configured panic is the outcome; it short-circuits counting,
	// cardinality, events, and returns.
	if e.hasPanic {
		return Outcome{Kind: OutcomePanic, PanicVal: e.panicVal}
	}

	e.count++

	if e.cardinality.violated(e.count) {
		return Outcome{Kind: OutcomePanic, PanicVal: &CardinalityError{
			Call:     inv.Render(),
			Rule:     e.cardinality.String(),
			Observed: e.count,
		}}
	}

	if e.eventTarget != nil {
		e.eventTarget(produceEventArg(e.eventProducer, inv.Args))
	}

	if e.hasReturn {
		if e.returnFn != nil {
			return Outcome{Kind: OutcomeValues, Values: e.returnFn()}
		}

		return Outcome{Kind: OutcomeValues, Values: e.returnVals}
	}

	return Outcome{Kind: OutcomeVoid}
}

// produceEventArg invokes the producer with a prefix of the actual call's
// arguments, sized by the producer's own arity. A nil producer yields nil.
func produceEventArg(producer any, args []any) any {
	if producer == nil {
		return nil
	}

	fn := reflect.ValueOf(producer)
	arity := fn.Type().NumIn()

	if arity > len(args) {
		panic(fmt.Sprintf(
			"mimic: event producer wants %d args, call only has %d", arity, len(args),
		))
	}

	in := make([]reflect.Value, arity)

	for i := 0; i < arity; i++ {
		if args[i] == nil {
			in[i] = reflect.Zero(fn.Type().In(i))
		} else {
			in[i] = reflect.ValueOf(args[i])
		}
	}

	out := fn.Call(in)
	if len(out) == 0 {
		return nil
	}

	return out[0].Interface()
}
