package core

// Selector picks which expectations a verification sweep inspects.
type Selector int

const (
	// SelectAll inspects every registered expectation.
	SelectAll Selector = iota
	// SelectVerifiable inspects only expectations flagged verifiable.
	SelectVerifiable
)

// Check scans the stand-in's registry (and, transitively, every owned
// sub-stand-in's) under the selector and aggregates unmet expectations into
// one error naming the stand-in's subject type. Returns nil when everything
// selected was exercised.
func Check(standin *Standin, selector Selector) error {
	report := &VerificationError{Subject: standin.Subject()}
	collect(standin, selector, report)

	if len(report.Unmet) == 0 {
		return nil
	}

	return report
}

func collect(standin *Standin, selector Selector, report *VerificationError) {
	for _, expectation := range standin.Registry().All() {
		if selector == SelectVerifiable && !expectation.IsVerifiable() {
			continue
		}

		line := expectation.Pattern().Render()
		report.Expected = append(report.Expected, line)

		if expectation.Invoked() {
			report.Observed = append(report.Observed, line)

			continue
		}

		report.Unmet = append(report.Unmet, line)
	}

	for _, child := range standin.Children() {
		collect(child, selector, report)
	}
}
