// Package mrule holds the pure, rule-evaluation algorithms Rule-Executor
// runs: band selection over a numeric outcome, and the reference rule 901
// implementation. Kept dependency-free (no broker/cache/DB imports) so it is
// trivially unit-testable, matching the teacher's convention of isolating
// pure domain logic from its adapters.
package mrule

import "github.com/fraudmesh/evalengine/pkg/mmodel"

// SelectBand returns the first band in bands (declaration order) containing
// v, implementing spec.md §8's quantified banding invariant: a band with a
// nil lower bound matches down to -infinity, a nil upper bound matches up to
// +infinity, and the first match wins ties.
func SelectBand(v float64, bands []mmodel.Band) (mmodel.Band, bool) {
	return mmodel.DetermineOutcome(v, bands)
}
