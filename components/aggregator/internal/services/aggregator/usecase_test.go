package aggregator

import (
	"context"
	"errors"
	"testing"

	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/fraudmesh/evalengine/pkg/mtransport"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAggregatorRendezvous struct {
	members map[string][]mmodel.TypologyResult
}

func newFakeAggregatorRendezvous() *fakeAggregatorRendezvous {
	return &fakeAggregatorRendezvous{members: map[string][]mmodel.TypologyResult{}}
}

func (r *fakeAggregatorRendezvous) AddAndCount(_ context.Context, msgID string, result mmodel.TypologyResult) (int64, error) {
	r.members[msgID] = append(r.members[msgID], result)
	return int64(len(r.members[msgID])), nil
}

func (r *fakeAggregatorRendezvous) Collect(_ context.Context, msgID string) ([]mmodel.TypologyResult, error) {
	return r.members[msgID], nil
}

func (r *fakeAggregatorRendezvous) Delete(_ context.Context, msgID string) error {
	delete(r.members, msgID)
	return nil
}

type fakeEvaluationStore struct {
	inserted []mmodel.Payload
}

func (s *fakeEvaluationStore) Insert(_ context.Context, _ string, payload mmodel.Payload) error {
	s.inserted = append(s.inserted, payload)
	return nil
}

func routingWithTwoTypologies() *mmodel.RoutingConfiguration {
	return &mmodel.RoutingConfiguration{
		Messages: []mmodel.RoutingMessage{
			{
				ID:      "pacs008-routing",
				Version: "1",
				TxTp:    mmodel.TxTypePacs008,
				Typologies: []mmodel.RoutingTypology{
					{ID: "tp-structuring"},
					{ID: "tp-layering"},
				},
			},
		},
	}
}

func typologyPayload(msgID, typologyID string, review bool) mmodel.Payload {
	return mmodel.Payload{
		Transaction:    mmodel.Transaction{Pacs008: &mmodel.Pacs008Document{MsgID: msgID}},
		Routing:        routingWithTwoTypologies(),
		TypologyResult: &mmodel.TypologyResult{ID: typologyID, Review: review},
	}
}

func TestHandleTypologyResult_WaitsForEveryTypologyBeforePersisting(t *testing.T) {
	rz := newFakeAggregatorRendezvous()
	store := &fakeEvaluationStore{}
	uc := &UseCase{Rendezvous: rz, Store: store}

	body, err := mtransport.Encode(typologyPayload("msg-1", "tp-structuring", false))
	require.NoError(t, err)
	require.NoError(t, uc.HandleTypologyResult(context.Background(), "aggregator", amqp.Table{}, body))
	assert.Empty(t, store.inserted, "should wait for the second typology before persisting")

	body, err = mtransport.Encode(typologyPayload("msg-1", "tp-layering", true))
	require.NoError(t, err)
	require.NoError(t, uc.HandleTypologyResult(context.Background(), "aggregator", amqp.Table{}, body))

	require.Len(t, store.inserted, 1)
	final := store.inserted[0]
	require.NotNil(t, final.AggregationResult)
	assert.True(t, final.AggregationResult.Review, "review should be true if any collected typology result flagged review")
	assert.Len(t, final.AggregationResult.TypologyResults, 2)
	assert.Nil(t, final.TypologyResult, "intermediate typology_result should be cleared from the terminal record")
}

func TestHandleTypologyResult_MissingRoutingIsPoisoned(t *testing.T) {
	uc := &UseCase{Rendezvous: newFakeAggregatorRendezvous(), Store: &fakeEvaluationStore{}}

	payload := mmodel.Payload{
		Transaction:    mmodel.Transaction{Pacs008: &mmodel.Pacs008Document{MsgID: "msg-1"}},
		TypologyResult: &mmodel.TypologyResult{ID: "tp-structuring"},
	}
	body, err := mtransport.Encode(payload)
	require.NoError(t, err)

	err = uc.HandleTypologyResult(context.Background(), "aggregator", amqp.Table{}, body)
	require.Error(t, err)

	var poison *mtransport.PoisonError
	assert.True(t, errors.As(err, &poison))
}
