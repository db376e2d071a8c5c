package constant

import (
	"fmt"
	"strings"
)

// Broker subjects, built exactly per spec.md §6. Each component's config
// carries the prefix; these builders keep the `.`-joined shape in one place
// instead of scattering fmt.Sprintf calls through every adapter.

// IntakeSubject is Intake -> Router: "{intake-prefix}.{msg_id}".
func IntakeSubject(prefix, msgID string) string {
	return prefix + "." + msgID
}

// RuleSubject is Router -> Rule-Executor: "{rule-prefix}.{rule_id}.v{rule_version}".
func RuleSubject(prefix, ruleID, ruleVersion string) string {
	return fmt.Sprintf("%s.%s.v%s", prefix, ruleID, ruleVersion)
}

// RuleSubjectPattern is the wildcard pattern Rule-Executor subscribes to.
func RuleSubjectPattern(prefix string) string {
	return prefix + ".*.*"
}

// ParseRuleSubject extracts (rule_id, rule_version) from a subject produced
// by RuleSubject, e.g. "rule.901.v1" -> ("901", "1").
func ParseRuleSubject(prefix, subject string) (id, version string, ok bool) {
	rest := strings.TrimPrefix(subject, prefix+".")
	if rest == subject {
		return "", "", false
	}

	parts := strings.SplitN(rest, ".v", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// TypologySubject is Rule-Executor -> Typologies: "{typology-prefix}.{rule_id}".
func TypologySubject(prefix, ruleID string) string {
	return prefix + "." + ruleID
}

// TypologySubjectPattern is the wildcard pattern Typologies subscribes to.
func TypologySubjectPattern(prefix string) string {
	return prefix + ".*"
}

// AggregatorSubject is Typologies -> Aggregator: "{aggregator-prefix}".
func AggregatorSubject(prefix string) string {
	return prefix
}

// ReloadSubject is Config plane -> all stages: "{config-prefix}.reload".
func ReloadSubject(prefix string) string {
	return prefix + ".reload"
}
