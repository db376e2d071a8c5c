package mmodel

// TxType tags which ISO 20022 message a Payload is carrying.
type TxType string

const (
	TxTypePacs008 TxType = "pacs.008.001.12"
	TxTypePacs002 TxType = "pacs.002.001.12"
)

// RoutingRule is a reference to a rule at a pinned version, as it appears
// inside a RoutingTypology.
type RoutingRule struct {
	ID      string `json:"id" msgpack:"id"`
	Version string `json:"version" msgpack:"version"`
}

// RoutingTypology names a typology and the rules that must report before it
// can be evaluated.
type RoutingTypology struct {
	ID      string        `json:"id" msgpack:"id"`
	Version string        `json:"version" msgpack:"version"`
	Rules   []RoutingRule `json:"rules" msgpack:"rules"`
}

// RoutingMessage binds a transaction type to the typologies (and, through
// them, the rules) that apply to it.
type RoutingMessage struct {
	ID         string            `json:"id" msgpack:"id"`
	Version    string            `json:"version" msgpack:"version"`
	TxTp       TxType            `json:"tx_tp" msgpack:"tx_tp"`
	Typologies []RoutingTypology `json:"typologies" msgpack:"typologies"`
}

// RoutingConfiguration is the source-of-truth declaration of which rules and
// typologies apply to which transaction types. Exactly one routing is
// expected to be active at a time, though the schema does not enforce it.
type RoutingConfiguration struct {
	UUID     string           `json:"uuid" msgpack:"uuid"`
	Active   bool             `json:"active" msgpack:"active"`
	Name     string           `json:"name" msgpack:"name"`
	Version  string           `json:"version" msgpack:"version"`
	Messages []RoutingMessage `json:"messages" msgpack:"messages"`
}

// MessageFor returns the RoutingMessage matching the given transaction type,
// if any.
func (r RoutingConfiguration) MessageFor(txTp TxType) (RoutingMessage, bool) {
	for _, m := range r.Messages {
		if m.TxTp == txTp {
			return m, true
		}
	}

	return RoutingMessage{}, false
}

// FanOut computes the deduplicated set of (rule.id, rule.version) targets
// for the given transaction type, per spec.md §4.3 step 3 / §8's quantified
// fan-out invariant.
func (r RoutingConfiguration) FanOut(txTp TxType) []RoutingRule {
	seen := make(map[RoutingRule]struct{})
	out := make([]RoutingRule, 0)

	for _, m := range r.Messages {
		if m.TxTp != txTp {
			continue
		}

		for _, t := range m.Typologies {
			for _, rule := range t.Rules {
				if _, ok := seen[rule]; ok {
					continue
				}

				seen[rule] = struct{}{}
				out = append(out, rule)
			}
		}
	}

	return out
}

// TypologiesContainingRule returns every RoutingTypology (across the first
// matching message) whose rule set includes the given rule. Typologies and
// Aggregator both key their "how many typologies does this routing declare"
// question off Messages[0] per spec.md's REDESIGN FLAGS open question, so
// this helper does the same rather than scanning every message.
func (r RoutingConfiguration) TypologiesContainingRule(rule RoutingRule) []RoutingTypology {
	if len(r.Messages) == 0 {
		return nil
	}

	out := make([]RoutingTypology, 0)

	for _, t := range r.Messages[0].Typologies {
		for _, rr := range t.Rules {
			if rr == rule {
				out = append(out, t)
				break
			}
		}
	}

	return out
}

// TypologyCount is the number of typologies declared for the routing's first
// message slot; Aggregator's rendezvous cardinality threshold is compared
// against this value.
func (r RoutingConfiguration) TypologyCount() int {
	if len(r.Messages) == 0 {
		return 0
	}

	return len(r.Messages[0].Typologies)
}
