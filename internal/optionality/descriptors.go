package optionality

import "github.com/toyz/axonlint/internal/models"

// MismatchedParameterOptionality is reported when an optional route segment is bound
// to a handler parameter that cannot represent absence
var MismatchedParameterOptionality = models.Descriptor{
	ID:            "AXL0001",
	Title:         "Optional route segment bound to a non-nullable parameter",
	MessageFormat: "parameter '%s' should be nullable to match its optional route segment",
	Category:      "Usage",
	Severity:      models.SeverityWarning,
}

// FixTitle is the title of the fix that makes mismatched parameters nullable
const FixTitle = "Make route parameters nullable"
