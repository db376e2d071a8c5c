package ruleexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fraudmesh/evalengine/pkg/mcache"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRuleFetcher struct {
	cfg mmodel.RuleConfiguration
	err error
	hit int
}

func (f *fakeRuleFetcher) GetRule(_ context.Context, _, _ string) (mmodel.RuleConfiguration, error) {
	f.hit++
	return f.cfg, f.err
}

type fakeHistory struct{ count int64 }

func (h fakeHistory) CountIncomingTransactions(_ context.Context, _ string, _, _ time.Time) (int64, error) {
	return h.count, nil
}

type fakeTypologyPublisher struct {
	published []mmodel.Payload
}

func (p *fakeTypologyPublisher) PublishTypology(_ context.Context, _ string, v any) error {
	p.published = append(p.published, v.(mmodel.Payload))
	return nil
}

func newRuleExecutorUseCase(t *testing.T, fetcher Fetcher, pub TypologyPublisher) *UseCase {
	t.Helper()

	local, err := mcache.NewLocal[mmodel.RuleConfiguration](8)
	require.NoError(t, err)

	return &UseCase{
		Resolver:          mcache.NewResolver(local, nil, time.Minute),
		ConfigClient:      fetcher,
		History:           fakeHistory{count: 2},
		Publisher:         pub,
		RuleSubjectPrefix: "rule",
	}
}

func bandedRuleConfig(t *testing.T) mmodel.RuleConfiguration {
	t.Helper()

	params, err := json.Marshal(map[string]any{"max_query_range_ms": 3_600_000})
	require.NoError(t, err)

	low, high := 0.0, 5.0

	return mmodel.RuleConfiguration{
		ID:      "rule-901",
		Version: "1",
		Configuration: mmodel.RuleDetail{
			Parameters: params,
			Bands:      []mmodel.Band{{SubRuleRef: ".b01", Reason: "ok", Lower: &low, Upper: &high}},
		},
	}
}

func acceptedPayload() mmodel.Payload {
	return mmodel.Payload{
		Transaction: mmodel.Transaction{Pacs002: &mmodel.Pacs002Document{
			CreDtTm:     time.Now(),
			TxInfAndSts: []mmodel.TxInfAndSts{{OrgnlEndToEndID: "e2e-1", TxSts: mmodel.StatusAccepted}},
		}},
		DataCache: &mmodel.DataCache{DebtorAccountID: "acct-1"},
	}
}

func TestHandleRule_EvaluatesAndForwardsToTypologies(t *testing.T) {
	fetcher := &fakeRuleFetcher{cfg: bandedRuleConfig(t)}
	pub := &fakeTypologyPublisher{}
	uc := newRuleExecutorUseCase(t, fetcher, pub)

	body, err := mtransport.Encode(acceptedPayload())
	require.NoError(t, err)

	require.NoError(t, uc.HandleRule(context.Background(), "rule.rule-901.v1", amqp.Table{}, body))
	require.Len(t, pub.published, 1)
	assert.Equal(t, ".b01", pub.published[0].RuleResult.SubRuleRef)
}

func TestHandleRule_UnparsableSubjectIsPoisoned(t *testing.T) {
	uc := newRuleExecutorUseCase(t, &fakeRuleFetcher{cfg: bandedRuleConfig(t)}, &fakeTypologyPublisher{})

	body, err := mtransport.Encode(acceptedPayload())
	require.NoError(t, err)

	err = uc.HandleRule(context.Background(), "not-a-rule-subject", amqp.Table{}, body)
	require.Error(t, err)

	var poison *mtransport.PoisonError
	assert.True(t, errors.As(err, &poison))
}

func TestHandleRule_MissingTransactionIsPoisoned(t *testing.T) {
	uc := newRuleExecutorUseCase(t, &fakeRuleFetcher{cfg: bandedRuleConfig(t)}, &fakeTypologyPublisher{})

	body, err := mtransport.Encode(mmodel.Payload{})
	require.NoError(t, err)

	err = uc.HandleRule(context.Background(), "rule.rule-901.v1", amqp.Table{}, body)
	require.Error(t, err)

	var poison *mtransport.PoisonError
	assert.True(t, errors.As(err, &poison))
}

func TestHandleReload_RuleKindInvalidatesOnlyThatEntry(t *testing.T) {
	fetcher := &fakeRuleFetcher{cfg: bandedRuleConfig(t)}
	uc := newRuleExecutorUseCase(t, fetcher, &fakeTypologyPublisher{})

	body, err := mtransport.Encode(acceptedPayload())
	require.NoError(t, err)

	require.NoError(t, uc.HandleRule(context.Background(), "rule.rule-901.v1", amqp.Table{}, body))
	require.Equal(t, 1, fetcher.hit)

	reloadBody, err := mtransport.Encode(mmodel.ReloadEvent{Kind: mmodel.ReloadKindRule, ID: "rule-901", Version: "1"})
	require.NoError(t, err)
	require.NoError(t, uc.HandleReload(context.Background(), "reload", amqp.Table{}, reloadBody))

	require.NoError(t, uc.HandleRule(context.Background(), "rule.rule-901.v1", amqp.Table{}, body))
	assert.Equal(t, 2, fetcher.hit)
}
