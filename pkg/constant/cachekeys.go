package constant

import "fmt"

// Cache keys, per spec.md §6. Keeping the format strings centralised means
// the Config plane's invalidation path and every stage's read path can never
// drift out of sync.

// RoutingActiveKey is the cache key for the active routing snapshot.
const RoutingActiveKey = "routing.active"

// RoutingByUUIDKey is the cache key for a routing snapshot by surrogate id.
func RoutingByUUIDKey(uuid string) string {
	return "routing." + uuid
}

// RuleKey is the cache key for a rule configuration snapshot.
func RuleKey(id, version string) string {
	return fmt.Sprintf("rule.%s.%s", id, version)
}

// TypologyKey is the cache key for a typology configuration snapshot.
func TypologyKey(id, version string) string {
	return fmt.Sprintf("typology.%s.%s", id, version)
}

// DataCacheKey is the cache key for an enriched DataCache entry, keyed by
// end-to-end id with a configured TTL.
func DataCacheKey(endToEndID string) string {
	return endToEndID
}

// TypologyRendezvousKey is the rendezvous set Typologies correlates rule
// results into, per message.
func TypologyRendezvousKey(msgID string) string {
	return "tp_" + msgID
}

// AggregatorRendezvousKey is the rendezvous set Aggregator correlates
// typology results into, per message.
func AggregatorRendezvousKey(msgID string) string {
	return "tadp_" + msgID + "_tp"
}
