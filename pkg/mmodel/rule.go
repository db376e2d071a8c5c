package mmodel

import "encoding/json"

// ExitCondition short-circuits rule evaluation to a fixed outcome without
// running the rule's normal scoring logic (e.g. an unsuccessful incoming
// transaction at Rule 901).
type ExitCondition struct {
	SubRuleRef string `json:"sub_rule_ref" msgpack:"sub_rule_ref"`
	Reason     string `json:"reason" msgpack:"reason"`
}

// Band is a half-open numeric interval [Lower, Upper) mapping a rule's
// numeric outcome to a sub-rule reference and reason. Either bound may be
// nil (unbounded).
type Band struct {
	SubRuleRef string   `json:"sub_rule_ref" msgpack:"sub_rule_ref"`
	Reason     string   `json:"reason" msgpack:"reason"`
	Lower      *float64 `json:"lower_limit,omitempty" msgpack:"lower_limit,omitempty"`
	Upper      *float64 `json:"upper_limit,omitempty" msgpack:"upper_limit,omitempty"`
}

// Contains reports whether v falls in [Lower, Upper), treating a nil bound
// as unbounded on that side.
func (b Band) Contains(v float64) bool {
	if b.Lower != nil && v < *b.Lower {
		return false
	}

	if b.Upper != nil && v >= *b.Upper {
		return false
	}

	return true
}

// RuleParameters is the rule's untyped tuning knobs; individual rule
// implementations parse the fields they need out of it (e.g. Rule 901 reads
// max_query_range_ms).
type RuleParameters json.RawMessage

// RuleDetail is the sub-document of RuleConfiguration that rule
// implementations actually evaluate against.
type RuleDetail struct {
	Parameters     RuleParameters  `json:"parameters" msgpack:"parameters"`
	ExitConditions []ExitCondition `json:"exit_conditions" msgpack:"exit_conditions"`
	Bands          []Band          `json:"bands" msgpack:"bands"`
}

// RuleConfiguration is a versioned scoring rule definition, owned by the
// Config plane's database and cached immutably downstream.
type RuleConfiguration struct {
	ID            string     `json:"id" msgpack:"id"`
	Version       string     `json:"version" msgpack:"version"`
	Description   string     `json:"description" msgpack:"description"`
	Configuration RuleDetail `json:"configuration" msgpack:"configuration"`
}

// DetermineOutcome returns the first band (in declaration order) containing
// v, implementing spec.md §8's banding invariant: iteration order is the
// tie-break.
func DetermineOutcome(v float64, bands []Band) (Band, bool) {
	for _, b := range bands {
		if b.Contains(v) {
			return b, true
		}
	}

	return Band{}, false
}
