package core_test

import (
	"errors"
	"testing"

	"github.com/mimictest/mimic/internal/core"
)

func invocation(name string, args ...any) *core.Invocation {
	return &core.Invocation{Member: member(name), Args: args}
}

func TestExecute_ReturnsLiteralValues(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(member("Get"), core.Any())).Return(6, nil)

	outcome := expectation.Execute(invocation("Get", 3))

	if outcome.Kind != core.OutcomeValues {
		t.Fatalf("outcome kind = %v, want values", outcome.Kind)
	}

	if len(outcome.Values) != 2 || outcome.Values[0] != 6 {
		t.Errorf("outcome values = %#v, want [6 <nil>]", outcome.Values)
	}

	if !expectation.Invoked() {
		t.Error("invoked flag not set by execution")
	}
}

func TestExecute_VoidWhenNoBehavior(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(member("Ping")))

	if outcome := expectation.Execute(invocation("Ping")); outcome.Kind != core.OutcomeVoid {
		t.Errorf("outcome kind = %v, want void", outcome.Kind)
	}
}

// The return-producing function is evaluated at call time, never memoized,
// so it may depend on mutable state external to the expectation.
func TestExecute_LazyReturnNotMemoized(t *testing.T) {
	t.Parallel()

	counter := 0
	expectation := core.NewExpectation(core.NewCallPattern(member("Next"))).
		ReturnFunc(func() []any {
			counter++

			return []any{counter}
		})

	if counter != 0 {
		t.Fatal("return producer ran at configuration time")
	}

	first := expectation.Execute(invocation("Next"))
	second := expectation.Execute(invocation("Next"))

	if first.Values[0] != 1 || second.Values[0] != 2 {
		t.Errorf("lazy returns = %v then %v, want 1 then 2", first.Values[0], second.Values[0])
	}
}

// The callback runs with the actual arguments, before any other effect.
func TestExecute_CallbackRunsBeforePanicOutcome(t *testing.T) {
	t.Parallel()

	var seen []any

	boom := errors.New("boom")
	expectation := core.NewExpectation(core.NewCallPattern(member("Save"), core.Any())).
		Call(func(args []any) { seen = args }).
		Panic(boom)

	outcome := expectation.Execute(invocation("Save", 99))

	if len(seen) != 1 || seen[0] != 99 {
		t.Errorf("callback saw %#v, want the actual args [99]", seen)
	}

	if outcome.Kind != core.OutcomePanic || outcome.PanicVal != boom {
		t.Errorf("outcome = %+v, want panic with the configured error", outcome)
	}
}

// A configured panic short-circuits counting, so it never trips cardinality.
func TestExecute_PanicShortCircuitsCount(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(member("Save"), core.Any())).
		Panic("boom").
		Once()

	expectation.Execute(invocation("Save", 1))
	outcome := expectation.Execute(invocation("Save", 2))

	if expectation.Count() != 0 {
		t.Errorf("count = %d after panic outcomes, want 0", expectation.Count())
	}

	if outcome.Kind != core.OutcomePanic || outcome.PanicVal != "boom" {
		t.Errorf("second outcome = %+v, want the configured panic, not a cardinality failure", outcome)
	}
}

// An exactly-once expectation fails on the second invocation, not before.
func TestExecute_OnceFailsOnSecondCall(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(member("Save"), core.Any())).Once()

	if outcome := expectation.Execute(invocation("Save", 1)); outcome.Kind != core.OutcomeVoid {
		t.Fatalf("first call outcome = %+v, want void", outcome)
	}

	outcome := expectation.Execute(invocation("Save", 2))
	if outcome.Kind != core.OutcomePanic {
		t.Fatalf("second call outcome kind = %v, want panic", outcome.Kind)
	}

	var cardErr *core.CardinalityError
	if err, ok := outcome.PanicVal.(error); !ok || !errors.As(err, &cardErr) {
		t.Fatalf("second call panic value = %#v, want *CardinalityError", outcome.PanicVal)
	}
}

// A never expectation fails on the first invocation.
func TestExecute_NeverFailsImmediately(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(member("Delete"), core.Any())).Never()

	outcome := expectation.Execute(invocation("Delete", 1))
	if outcome.Kind != core.OutcomePanic {
		t.Fatalf("outcome kind = %v, want panic on first call", outcome.Kind)
	}
}

func TestExecute_TimesFailsPastN(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(member("Poll"))).Times(2)

	for call := 1; call <= 2; call++ {
		if outcome := expectation.Execute(invocation("Poll")); outcome.Kind != core.OutcomeVoid {
			t.Fatalf("call %d outcome = %+v, want void", call, outcome)
		}
	}

	if outcome := expectation.Execute(invocation("Poll")); outcome.Kind != core.OutcomePanic {
		t.Errorf("third call outcome kind = %v, want panic", outcome.Kind)
	}
}

// Output-binding values land in the invocation's output slots on execution,
// regardless of the other matchers' outcomes elsewhere.
func TestExecute_OutBindingWriteBack(t *testing.T) {
	t.Parallel()

	expectation := core.NewExpectation(core.NewCallPattern(
		member("TryParse"), core.Any(), core.Out(0, 42),
	)).Return(true)

	inv := &core.Invocation{
		Member: member("TryParse"),
		Args:   []any{"42"},
		Outs:   make([]any, 1),
	}

	outcome := expectation.Execute(inv)

	if inv.Outs[0] != 42 {
		t.Errorf("output slot 0 = %#v after execution, want 42", inv.Outs[0])
	}

	if outcome.Kind != core.OutcomeValues || outcome.Values[0] != true {
		t.Errorf("outcome = %+v, want values [true]", outcome)
	}
}

// The event producer may take a prefix of the actual call's arguments; its
// result is delivered to the target.
func TestExecute_EventRaise(t *testing.T) {
	t.Parallel()

	var delivered any

	expectation := core.NewExpectation(core.NewCallPattern(member("Update"), core.Any(), core.Any())).
		Raise(func(arg any) { delivered = arg }, func(id int) string {
			return "changed-" + string(rune('0'+id))
		})

	expectation.Execute(invocation("Update", 3, "payload"))

	if delivered != "changed-3" {
		t.Errorf("event target received %#v, want \"changed-3\"", delivered)
	}
}

func TestExecute_EventProducerZeroArity(t *testing.T) {
	t.Parallel()

	var delivered any

	expectation := core.NewExpectation(core.NewCallPattern(member("Tick"))).
		Raise(func(arg any) { delivered = arg }, func() int { return 7 })

	expectation.Execute(invocation("Tick"))

	if delivered != 7 {
		t.Errorf("event target received %#v, want 7", delivered)
	}
}
