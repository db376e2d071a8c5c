package mcache

import "context"

// AddAndMembers performs the atomic pipeline SADD(key, member); SMEMBERS(key)
// spec.md §4.5 step 2 calls for: it registers this delivery's encoded
// RuleResult and returns every member observed so far, tolerating duplicate
// redelivery by set semantics.
func (r *Remote) AddAndMembers(ctx context.Context, key string, member []byte) ([][]byte, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	pipe := client.TxPipeline()
	pipe.SAdd(ctx, key, member)
	membersCmd := pipe.SMembersMap(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result, err := membersCmd.Result()
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(result))
	for member := range result {
		out = append(out, []byte(member))
	}

	return out, nil
}

// AddAndCard performs the atomic pipeline SADD(key, member); SCARD(key)
// spec.md §4.6 step 2 calls for.
func (r *Remote) AddAndCard(ctx context.Context, key string, member []byte) (int64, error) {
	client, err := r.client(ctx)
	if err != nil {
		return 0, err
	}

	pipe := client.TxPipeline()
	pipe.SAdd(ctx, key, member)
	cardCmd := pipe.SCard(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return cardCmd.Result()
}

// Members returns every member of a rendezvous set, used once cardinality
// has crossed the completion threshold.
func (r *Remote) Members(ctx context.Context, key string) ([][]byte, error) {
	client, err := r.client(ctx)
	if err != nil {
		return nil, err
	}

	result, err := client.SMembersMap(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	out := make([][]byte, 0, len(result))
	for member := range result {
		out = append(out, []byte(member))
	}

	return out, nil
}
