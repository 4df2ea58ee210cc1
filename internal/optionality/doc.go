// Package optionality implements the route optionality rule: a route template segment
// marked optional ({name?}) must be bound to a handler parameter that can represent
// "no value", either because its type is nullable or because it declares a default.
//
// The rule is split into independent pure functions over a models.Registration:
//
//	set := Correlate(routes.Parse(reg.Template), reg.Parameters)
//	diag, found := Check(reg)             // at most one diagnostic per registration
//	fix := Plan(reg, PointerStyle)        // edits for every mismatch, applied together
//
// Check and Plan never share state. Plan recomputes the mismatch set from the
// registration it is given, so a fix computed against changed source degrades to an
// empty edit set instead of rewriting stale positions.
package optionality
