package mtypology

import (
	"testing"

	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
)

func cfgWithExpression(op mmodel.Operator, terms []mmodel.ExpressionTerm, rules []mmodel.TypologyRule) mmodel.TypologyConfiguration {
	return mmodel.TypologyConfiguration{
		ID:         "tp-structuring",
		Version:    "1",
		Rules:      rules,
		Expression: mmodel.Expression{Operator: op, Terms: terms},
	}
}

func TestEvaluate_AddsDeclaredWeights(t *testing.T) {
	cfg := cfgWithExpression(mmodel.OperatorAdd,
		[]mmodel.ExpressionTerm{{ID: "rule-901", Version: "1"}, {ID: "rule-902", Version: "1"}},
		[]mmodel.TypologyRule{
			{ID: "rule-901", Version: "1", Weights: []mmodel.RuleWeight{{Ref: "high", Weight: 0.6}}},
			{ID: "rule-902", Version: "1", Weights: []mmodel.RuleWeight{{Ref: "low", Weight: 0.1}}},
		})

	results := []mmodel.RuleResult{
		{ID: "rule-901", Version: "1", SubRuleRef: "high"},
		{ID: "rule-902", Version: "1", SubRuleRef: "low"},
	}

	assert.InDelta(t, 0.7, Evaluate(cfg, results), 1e-9)
}

func TestEvaluate_MissingTermShortCircuitsToZero(t *testing.T) {
	cfg := cfgWithExpression(mmodel.OperatorAdd,
		[]mmodel.ExpressionTerm{{ID: "rule-901", Version: "1"}, {ID: "rule-902", Version: "1"}},
		[]mmodel.TypologyRule{
			{ID: "rule-901", Version: "1", Weights: []mmodel.RuleWeight{{Ref: "high", Weight: 0.6}}},
		})

	results := []mmodel.RuleResult{{ID: "rule-901", Version: "1", SubRuleRef: "high"}}

	assert.Equal(t, 0.0, Evaluate(cfg, results))
}

func TestEvaluate_UndeclaredSubRuleRefWarnsAndTreatsAsZero(t *testing.T) {
	cfg := cfgWithExpression(mmodel.OperatorAdd,
		[]mmodel.ExpressionTerm{{ID: "rule-901", Version: "1"}},
		[]mmodel.TypologyRule{
			{ID: "rule-901", Version: "1", Weights: []mmodel.RuleWeight{{Ref: "high", Weight: 0.6}}},
		})

	results := []mmodel.RuleResult{{ID: "rule-901", Version: "1", SubRuleRef: "unknown"}}

	var warned bool
	score := EvaluateWithWarn(cfg, results, func(string, ...any) { warned = true })

	assert.Equal(t, 0.0, score)
	assert.True(t, warned)
}

func TestEvaluate_DivideByZeroWeightLeavesAccumulatorUnchanged(t *testing.T) {
	cfg := cfgWithExpression(mmodel.OperatorDivide,
		[]mmodel.ExpressionTerm{{ID: "rule-901", Version: "1"}},
		[]mmodel.TypologyRule{
			{ID: "rule-901", Version: "1", Weights: []mmodel.RuleWeight{{Ref: "zero", Weight: 0}}},
		})

	results := []mmodel.RuleResult{{ID: "rule-901", Version: "1", SubRuleRef: "zero"}}

	assert.NotPanics(t, func() {
		assert.Equal(t, 0.0, Evaluate(cfg, results))
	})
}

func TestApplyWorkflow(t *testing.T) {
	interdiction := 0.9

	tests := []struct {
		name           string
		result         float64
		wf             mmodel.Workflow
		wantReview     bool
		wantAttached   bool
	}{
		{"below alert threshold", 0.1, mmodel.Workflow{AlertThreshold: 0.5}, false, false},
		{"at alert threshold", 0.5, mmodel.Workflow{AlertThreshold: 0.5}, true, false},
		{"above interdiction threshold attaches workflow", 0.95, mmodel.Workflow{AlertThreshold: 0.5, InterdictionThreshold: &interdiction}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, attached := ApplyWorkflow(tt.result, tt.wf)
			assert.Equal(t, tt.wantReview, review)
			assert.Equal(t, tt.wantAttached, attached != nil)
		})
	}
}
