// Package mtypology evaluates a TypologyConfiguration's weighted expression
// against a set of collected rule results. Kept dependency-free, same
// rationale as pkg/mrule.
package mtypology

import (
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// WarnFunc receives a human-readable warning for conditions the evaluator
// tolerates rather than fails on (a missing weight). Callers that care about
// observability pass their logger's Warnf; tests may pass nil.
type WarnFunc func(format string, args ...any)

func (w WarnFunc) warn(format string, args ...any) {
	if w != nil {
		w(format, args...)
	}
}

// Evaluate folds cfg.Expression.Operator over cfg.Expression.Terms starting
// from an accumulator of 0.0, per spec.md §4.5 step 4b / §8's quantified
// expression invariant:
//
//   - a term with no matching RuleResult makes the whole expression "not yet
//     computable" and short-circuits to 0.0 immediately;
//   - a term whose weight is not declared for its observed sub-rule ref is
//     treated as weight 0.0 (the fold is a no-op for that term), with a
//     warning;
//   - DIVIDE by a weight of exactly 0.0 leaves the accumulator unchanged
//     rather than dividing by zero.
func Evaluate(cfg mmodel.TypologyConfiguration, results []mmodel.RuleResult) float64 {
	return EvaluateWithWarn(cfg, results, nil)
}

// EvaluateWithWarn is Evaluate with an observable warning hook.
func EvaluateWithWarn(cfg mmodel.TypologyConfiguration, results []mmodel.RuleResult, warn WarnFunc) float64 {
	byRule := make(map[mmodel.VersionedID]mmodel.RuleResult, len(results))
	for _, r := range results {
		byRule[mmodel.VersionedID{ID: r.ID, Version: r.Version}] = r
	}

	acc := 0.0

	for _, term := range cfg.Expression.Terms {
		rr, ok := byRule[mmodel.VersionedID{ID: term.ID, Version: term.Version}]
		if !ok {
			return 0.0
		}

		rule, ok := cfg.RuleByID(term.ID, term.Version)

		var (
			weight float64
			found  bool
		)

		if ok {
			weight, found = rule.WeightFor(rr.SubRuleRef)
		}

		if !found {
			warn.warn("typology %s.%s: no weight declared for rule %s.%s sub_rule_ref %q, treating as 0.0",
				cfg.ID, cfg.Version, term.ID, term.Version, rr.SubRuleRef)

			weight = 0.0
		}

		acc = applyOperator(cfg.Expression.Operator, acc, weight)
	}

	return acc
}

func applyOperator(op mmodel.Operator, acc, w float64) float64 {
	switch op {
	case mmodel.OperatorAdd:
		return acc + w
	case mmodel.OperatorSubtract:
		return acc - w
	case mmodel.OperatorMultiply:
		return acc * w
	case mmodel.OperatorDivide:
		if w == 0 {
			return acc
		}

		return acc / w
	default:
		return acc
	}
}
