package optionality

import (
	"sort"

	"github.com/toyz/axonlint/internal/models"
)

// CorrelationSet holds the pairing of route segments with handler parameters.
// Pairs are kept in parameter declaration order; ByTemplate gives the template-order view.
type CorrelationSet struct {
	pairs    []models.CorrelatedPair
	segments []models.Segment
}

// Correlate pairs parameter segments with same-named handler parameters.
// Names match exactly and case-sensitively; when a template repeats a name only the
// first segment is used. Parameters without a segment are left out, segments without
// a parameter only appear in ByTemplate.
func Correlate(segments []models.Segment, params []models.HandlerParameter) CorrelationSet {
	index := make(map[string]models.Segment)
	var paramSegments []models.Segment
	for _, segment := range segments {
		if !segment.IsParameter() {
			continue
		}
		paramSegments = append(paramSegments, segment)
		if _, seen := index[segment.Name]; !seen {
			index[segment.Name] = segment
		}
	}

	ordered := make([]models.HandlerParameter, len(params))
	copy(ordered, params)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	set := CorrelationSet{segments: paramSegments}
	for i := range ordered {
		param := ordered[i]
		segment, ok := index[param.Name]
		if !ok {
			continue
		}

		status := models.PairMatched
		if malformed(param) {
			status = models.PairMalformed
		}
		set.pairs = append(set.pairs, models.CorrelatedPair{
			Segment:   segment,
			Parameter: &param,
			Status:    status,
		})
	}

	return set
}

// malformed reports parameters the rule cannot reason about safely
func malformed(param models.HandlerParameter) bool {
	return param.Name == "" || param.Name == "_" || param.DeclaredType == "" || !param.TypeSpan.IsValid()
}

// ByDeclaration returns matched and malformed pairs in parameter declaration order
func (c CorrelationSet) ByDeclaration() []models.CorrelatedPair {
	return c.pairs
}

// ByTemplate returns one pair per parameter segment in template order.
// Segments without a parameter carry PairUnmatched.
func (c CorrelationSet) ByTemplate() []models.CorrelatedPair {
	result := make([]models.CorrelatedPair, 0, len(c.segments))
	for _, segment := range c.segments {
		pair := models.CorrelatedPair{
			Segment: segment,
			Status:  models.PairUnmatched,
		}
		for _, candidate := range c.pairs {
			if candidate.Segment.Order == segment.Order {
				pair = candidate
				break
			}
		}
		result = append(result, pair)
	}
	return result
}

// Matched returns only the pairs eligible for evaluation, in declaration order
func (c CorrelationSet) Matched() []models.CorrelatedPair {
	var matched []models.CorrelatedPair
	for _, pair := range c.pairs {
		if pair.Status == models.PairMatched {
			matched = append(matched, pair)
		}
	}
	return matched
}

// Mismatches returns every optional segment bound to a parameter that cannot be absent
func (c CorrelationSet) Mismatches() []models.Mismatch {
	var mismatches []models.Mismatch
	for _, pair := range c.Matched() {
		if isMismatch(pair) {
			mismatches = append(mismatches, models.Mismatch{
				ParameterName: pair.Parameter.Name,
				ParameterSpan: pair.Parameter.Span,
				Parameter:     *pair.Parameter,
			})
		}
	}
	return mismatches
}

func isMismatch(pair models.CorrelatedPair) bool {
	return pair.Status == models.PairMatched &&
		pair.Segment.Optional &&
		!pair.Parameter.IsNullable &&
		!pair.Parameter.HasDefaultValue
}
