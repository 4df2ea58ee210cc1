package optionality

import "github.com/toyz/axonlint/internal/models"

type checkState int

const (
	stateScanning checkState = iota
	stateFound
	stateDone
)

// Check reports at most one diagnostic for a registration: the first mismatched
// parameter in declaration order. The diagnostic spans the whole registration so that
// one location is enough to drive a fix covering every mismatch.
func Check(reg models.Registration, opts ...Option) (models.Diagnostic, bool) {
	s := newSettings(opts)
	set := Correlate(s.parser.Parse(reg.Template), reg.Parameters)

	var found *models.HandlerParameter
	state := stateScanning
	pairs := set.Matched()

	for i := 0; state != stateDone; i++ {
		switch state {
		case stateScanning:
			if i >= len(pairs) {
				state = stateDone
				continue
			}
			if isMismatch(pairs[i]) {
				found = pairs[i].Parameter
				state = stateFound
			}
		case stateFound:
			// Later mismatches are covered by the fix, not by extra diagnostics.
			state = stateDone
		}
	}

	if found == nil {
		return models.Diagnostic{}, false
	}

	return models.Diagnostic{
		RuleID:    s.descriptor.ID,
		Severity:  s.descriptor.Severity,
		Message:   s.descriptor.Format(found.Name),
		Span:      reg.Span,
		Arguments: []string{found.Name},
	}, true
}

// CheckAll runs Check over registrations, skipping those without a finding
func CheckAll(regs []models.Registration, opts ...Option) []models.Diagnostic {
	var diagnostics []models.Diagnostic
	for _, reg := range regs {
		if diagnostic, ok := Check(reg, opts...); ok {
			diagnostics = append(diagnostics, diagnostic)
		}
	}
	return diagnostics
}
