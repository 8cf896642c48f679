package core_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/mimictest/mimic/internal/core"
)

func member(name string) core.MemberID {
	return core.MemberID{Subject: "Repo", Name: name, Kind: core.KindMethod}
}

// Registering twice with a structurally identical pattern leaves exactly one
// expectation, and the newest behavior wins.
func TestRegister_IdenticalShapeReplaces(t *testing.T) {
	t.Parallel()

	ids := core.NewIdentityTable()
	registry := core.NewRegistry(ids)

	first := core.NewExpectation(core.NewCallPattern(member("Save"), 5)).Return("old")
	second := core.NewExpectation(core.NewCallPattern(member("Save"), 5)).Return("new")

	registry.Register(first)
	registry.Register(second)

	if got := len(registry.All()); got != 1 {
		t.Fatalf("registry holds %d expectations, want 1", got)
	}

	resolved := registry.Resolve(&core.Invocation{Member: member("Save"), Args: []any{5}})
	if resolved != second {
		t.Error("resolution returned the replaced expectation, want the newest")
	}
}

// Two structurally different shapes on the same member coexist and resolve
// independently.
func TestRegister_DistinctShapesCoexist(t *testing.T) {
	t.Parallel()

	ids := core.NewIdentityTable()
	registry := core.NewRegistry(ids)

	literal := core.NewExpectation(core.NewCallPattern(member("Save"), 5)).Return("literal")
	wildcard := core.NewExpectation(core.NewCallPattern(member("Save"), core.Any())).Return("wildcard")

	registry.Register(literal)
	registry.Register(wildcard)

	if got := len(registry.All()); got != 2 {
		t.Fatalf("registry holds %d expectations, want 2", got)
	}

	if registry.Resolve(&core.Invocation{Member: member("Save"), Args: []any{5}}) != literal {
		t.Error("call with 5 did not resolve the literal expectation")
	}

	if registry.Resolve(&core.Invocation{Member: member("Save"), Args: []any{6}}) != wildcard {
		t.Error("call with 6 did not resolve the wildcard expectation")
	}
}

// Given overlapping matchers, resolution always returns the first registered
// expectation that matches.
func TestResolve_FirstMatchWins(t *testing.T) {
	t.Parallel()

	ids := core.NewIdentityTable()
	registry := core.NewRegistry(ids)

	wildcard := core.NewExpectation(core.NewCallPattern(member("Get"), core.AnyOf[int]()))
	literal := core.NewExpectation(core.NewCallPattern(member("Get"), 5))

	registry.Register(wildcard)
	registry.Register(literal)

	// Both match 5; the wildcard was registered first.
	if registry.Resolve(&core.Invocation{Member: member("Get"), Args: []any{5}}) != wildcard {
		t.Error("overlapping resolution did not return the first registered match")
	}
}

func TestResolve_ArityMustAgree(t *testing.T) {
	t.Parallel()

	ids := core.NewIdentityTable()
	registry := core.NewRegistry(ids)

	registry.Register(core.NewExpectation(core.NewCallPattern(member("Save"), core.Any())))

	if registry.Resolve(&core.Invocation{Member: member("Save"), Args: []any{1, 2}}) != nil {
		t.Error("expectation with one matcher resolved a two-argument call")
	}
}

func TestResolve_NoMatchReturnsNil(t *testing.T) {
	t.Parallel()

	ids := core.NewIdentityTable()
	registry := core.NewRegistry(ids)

	registry.Register(core.NewExpectation(core.NewCallPattern(member("Save"), 5)))

	if registry.Resolve(&core.Invocation{Member: member("Load"), Args: []any{5}}) != nil {
		t.Error("call to an unconfigured member resolved an expectation")
	}
}

// An actual call to an inherited override matches an expectation declared
// against the base member.
func TestResolve_OverrideEquality(t *testing.T) {
	t.Parallel()

	base := core.MemberID{Subject: "Base", Name: "Save", Kind: core.KindMethod}
	derived := core.MemberID{Subject: "Derived", Name: "Save", Kind: core.KindMethod}

	ids := core.NewIdentityTable()
	ids.Alias(derived, base)

	registry := core.NewRegistry(ids)

	expectation := core.NewExpectation(core.NewCallPattern(base, core.Any()))
	registry.Register(expectation)

	if registry.Resolve(&core.Invocation{Member: derived, Args: []any{1}}) != expectation {
		t.Error("call via the derived override did not match the base-member expectation")
	}
}

// Property: however many times a pattern shape is re-registered, the
// registry holds exactly one expectation per distinct shape, and a matching
// call resolves the newest registration of its shape.
func TestRegister_ShapeUniquenessProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ids := core.NewIdentityTable()
		registry := core.NewRegistry(ids)

		literals := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 20).Draw(t, "literals")

		last := make(map[int]*core.Expectation)

		for _, literal := range literals {
			expectation := core.NewExpectation(core.NewCallPattern(member("Do"), literal))
			registry.Register(expectation)
			last[literal] = expectation
		}

		if got := len(registry.All()); got != len(last) {
			t.Fatalf("registry holds %d expectations, want %d distinct shapes", got, len(last))
		}

		for literal, expectation := range last {
			resolved := registry.Resolve(&core.Invocation{Member: member("Do"), Args: []any{literal}})
			if resolved != expectation {
				t.Fatalf("literal %d resolved a stale registration", literal)
			}
		}
	})
}

// Property: with overlapping expectations registered in random order,
// resolution returns the first registered one that matches.
func TestResolve_FirstMatchOrderProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ids := core.NewIdentityTable()
		registry := core.NewRegistry(ids)

		// Each entry matches values >= its threshold, so lower thresholds
		// shadow higher ones for large-enough calls. Duplicate thresholds
		// would collide as identical shapes, so dedupe the draw.
		drawn := rapid.SliceOfN(rapid.IntRange(0, 9), 1, 10).Draw(t, "thresholds")

		seen := make(map[int]bool)
		thresholds := drawn[:0]

		for _, threshold := range drawn {
			if !seen[threshold] {
				seen[threshold] = true
				thresholds = append(thresholds, threshold)
			}
		}

		expectations := make([]*core.Expectation, len(thresholds))

		for i, threshold := range thresholds {
			expectations[i] = core.NewExpectation(core.NewCallPattern(
				member("Do"),
				core.InRange(threshold, 100, core.Inclusive, core.Inclusive),
			))
			registry.Register(expectations[i])
		}

		actual := rapid.IntRange(0, 9).Draw(t, "actual")

		var want *core.Expectation

		for i, threshold := range thresholds {
			if actual >= threshold {
				want = expectations[i]

				break
			}
		}

		got := registry.Resolve(&core.Invocation{Member: member("Do"), Args: []any{actual}})
		if got != want {
			t.Fatalf("resolution order violated first-match-wins for actual %d", actual)
		}
	})
}
