package mmodel

// Operator is the weighted-expression combinator used when aggregating rule
// results into a typology score.
type Operator string

const (
	OperatorAdd      Operator = "ADD"
	OperatorSubtract Operator = "SUBTRACT"
	OperatorMultiply Operator = "MULTIPLY"
	OperatorDivide   Operator = "DIVIDE"
)

// Workflow carries the thresholds that turn a typology's numeric result
// into review/interdiction flags.
type Workflow struct {
	AlertThreshold        float64  `json:"alert_threshold" msgpack:"alert_threshold"`
	InterdictionThreshold *float64 `json:"interdiction_threshold,omitempty" msgpack:"interdiction_threshold,omitempty"`
}

// RuleWeight maps a sub-rule reference a rule may emit to the numeric
// weight it contributes to this typology's expression.
type RuleWeight struct {
	Ref    string  `json:"ref" msgpack:"ref"`
	Weight float64 `json:"wght" msgpack:"wght"`
}

// TypologyRule lists the weights a single rule contributes by sub-rule
// reference.
type TypologyRule struct {
	ID      string       `json:"id" msgpack:"id"`
	Version string       `json:"version" msgpack:"version"`
	Weights []RuleWeight `json:"wghts" msgpack:"wghts"`
}

// WeightFor looks up the weight this rule declares for subRuleRef. The bool
// is false when the sub-rule ref is uncovered by its weight table.
func (t TypologyRule) WeightFor(subRuleRef string) (float64, bool) {
	for _, w := range t.Weights {
		if w.Ref == subRuleRef {
			return w.Weight, true
		}
	}

	return 0, false
}

// ExpressionTerm is one operand of a typology's weighted expression,
// referencing a rule by (id, version).
type ExpressionTerm struct {
	ID      string `json:"id" msgpack:"id"`
	Version string `json:"version" msgpack:"version"`
}

// Expression is the typology's weighted-sum recipe: fold Operator over Terms
// starting from an accumulator of 0.0.
type Expression struct {
	Operator Operator         `json:"operator" msgpack:"operator"`
	Terms    []ExpressionTerm `json:"terms" msgpack:"terms"`
}

// TypologyConfiguration is a versioned weighted-scoring definition, owned by
// the Config plane and cached immutably downstream.
type TypologyConfiguration struct {
	ID           string         `json:"id" msgpack:"id"`
	Version      string         `json:"version" msgpack:"version"`
	TypologyName string         `json:"typology_name" msgpack:"typology_name"`
	Description  string         `json:"description" msgpack:"description"`
	Workflow     Workflow       `json:"workflow" msgpack:"workflow"`
	Rules        []TypologyRule `json:"rules" msgpack:"rules"`
	Expression   Expression     `json:"expression" msgpack:"expression"`
}

// RuleByID finds the TypologyRule weight table for the given (id, version).
func (t TypologyConfiguration) RuleByID(id, version string) (TypologyRule, bool) {
	for _, r := range t.Rules {
		if r.ID == id && r.Version == version {
			return r, true
		}
	}

	return TypologyRule{}, false
}
