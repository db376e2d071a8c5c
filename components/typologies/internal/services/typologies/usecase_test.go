package typologies

import (
	"context"
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

type fakeTypologyFetcher struct {
	cfg mmodel.TypologyConfiguration
	err error
	hit int
}

func (f *fakeTypologyFetcher) GetTypology(_ context.Context, _, _ string) (mmodel.TypologyConfiguration, error) {
	f.hit++
	return f.cfg, f.err
}

type fakeRendezvous struct {
	sets  map[string][]mmodel.RuleResult
	deleted []string
}

func newFakeRendezvous() *fakeRendezvous {
	return &fakeRendezvous{sets: map[string][]mmodel.RuleResult{}}
}

func (r *fakeRendezvous) AddAndCollect(_ context.Context, msgID string, result mmodel.RuleResult) ([]mmodel.RuleResult, error) {
	r.sets[msgID] = append(r.sets[msgID], result)
	return r.sets[msgID], nil
}

func (r *fakeRendezvous) Delete(_ context.Context, msgID string) error {
	r.deleted = append(r.deleted, msgID)
	delete(r.sets, msgID)

	return nil
}

type fakeAggregatorPublisher struct {
	published []mmodel.Payload
}

func (p *fakeAggregatorPublisher) PublishAggregation(_ context.Context, v any) error {
	p.published = append(p.published, v.(mmodel.Payload))
	return nil
}

func newTypologyUseCase(t *testing.T, fetcher Fetcher, rz Rendezvous, pub AggregatorPublisher) *UseCase {
	t.Helper()

	local, err := mcache.NewLocal[mmodel.TypologyConfiguration](8)
	require.NoError(t, err)

	return &UseCase{
		Resolver:     mcache.NewResolver(local, nil, time.Minute),
		ConfigClient: fetcher,
		Rendezvous:   rz,
		Publisher:    pub,
	}
}

func routingWithOneTypology() *mmodel.RoutingConfiguration {
	return &mmodel.RoutingConfiguration{
		Messages: []mmodel.RoutingMessage{
			{
				TxTp: mmodel.TxTypePacs008,
				Typologies: []mmodel.RoutingTypology{
					{ID: "tp-structuring", Version: "1", Rules: []mmodel.RoutingRule{
						{ID: "rule-901", Version: "1"},
						{ID: "rule-902", Version: "1"},
					}},
				},
			},
		},
	}
}

func TestHandleRuleResult_WaitsForEveryRuleBeforeEvaluating(t *testing.T) {
	fetcher := &fakeTypologyFetcher{cfg: mmodel.TypologyConfiguration{ID: "tp-structuring", Version: "1"}}
	rz := newFakeRendezvous()
	pub := &fakeAggregatorPublisher{}
	uc := newTypologyUseCase(t, fetcher, rz, pub)

	payload := mmodel.Payload{
		Transaction: mmodel.Transaction{Pacs008: &mmodel.Pacs008Document{MsgID: "msg-1"}},
		Routing:     routingWithOneTypology(),
		RuleResult:  &mmodel.RuleResult{ID: "rule-901", Version: "1"},
	}
	body, err := mtransport.Encode(payload)
	require.NoError(t, err)

	require.NoError(t, uc.HandleRuleResult(context.Background(), "typology.msg-1", amqp.Table{}, body))
	assert.Empty(t, pub.published, "should not evaluate until every rule in the typology has reported")

	payload.RuleResult = &mmodel.RuleResult{ID: "rule-902", Version: "1"}
	body, err = mtransport.Encode(payload)
	require.NoError(t, err)

	require.NoError(t, uc.HandleRuleResult(context.Background(), "typology.msg-1", amqp.Table{}, body))
	require.Len(t, pub.published, 1)
	assert.Equal(t, "tp-structuring", pub.published[0].TypologyResult.ID)
	assert.Len(t, rz.deleted, 1, "rendezvous set should be cleaned up once every typology is complete")
}

func TestHandleRuleResult_MissingRuleResultIsPoisoned(t *testing.T) {
	uc := newTypologyUseCase(t, &fakeTypologyFetcher{}, newFakeRendezvous(), &fakeAggregatorPublisher{})

	payload := mmodel.Payload{Routing: routingWithOneTypology()}
	body, err := mtransport.Encode(payload)
	require.NoError(t, err)

	err = uc.HandleRuleResult(context.Background(), "typology.msg", amqp.Table{}, body)
	require.Error(t, err)

	var poison *mtransport.PoisonError
	assert.True(t, errors.As(err, &poison))
}

func TestHandleReload_TypologyKindInvalidatesOnlyThatEntry(t *testing.T) {
	fetcher := &fakeTypologyFetcher{cfg: mmodel.TypologyConfiguration{ID: "tp-structuring", Version: "1"}}
	rz := newFakeRendezvous()
	pub := &fakeAggregatorPublisher{}
	uc := newTypologyUseCase(t, fetcher, rz, pub)

	payload := mmodel.Payload{
		Transaction: mmodel.Transaction{Pacs008: &mmodel.Pacs008Document{MsgID: "msg-1"}},
		Routing:     routingWithOneTypology(),
		RuleResult:  &mmodel.RuleResult{ID: "rule-901", Version: "1"},
	}
	body, _ := mtransport.Encode(payload)
	require.NoError(t, uc.HandleRuleResult(context.Background(), "typology.msg-1", amqp.Table{}, body))

	payload.RuleResult = &mmodel.RuleResult{ID: "rule-902", Version: "1"}
	body, _ = mtransport.Encode(payload)
	require.NoError(t, uc.HandleRuleResult(context.Background(), "typology.msg-1", amqp.Table{}, body))
	require.Equal(t, 1, fetcher.hit)

	reloadBody, err := mtransport.Encode(mmodel.ReloadEvent{Kind: mmodel.ReloadKindTypology, ID: "tp-structuring", Version: "1"})
	require.NoError(t, err)
	require.NoError(t, uc.HandleReload(context.Background(), "reload", amqp.Table{}, reloadBody))

	msg2Payload := mmodel.Payload{
		Transaction: mmodel.Transaction{Pacs008: &mmodel.Pacs008Document{MsgID: "msg-2"}},
		Routing:     routingWithOneTypology(),
		RuleResult:  &mmodel.RuleResult{ID: "rule-901", Version: "1"},
	}
	body2, _ := mtransport.Encode(msg2Payload)
	require.NoError(t, uc.HandleRuleResult(context.Background(), "typology.msg-2", amqp.Table{}, body2))

	msg2Payload.RuleResult = &mmodel.RuleResult{ID: "rule-902", Version: "1"}
	body3, _ := mtransport.Encode(msg2Payload)
	require.NoError(t, uc.HandleRuleResult(context.Background(), "typology.msg-2", amqp.Table{}, body3))

	assert.Equal(t, 2, fetcher.hit, "reload should have evicted the cached entry, forcing a re-fetch")
}
