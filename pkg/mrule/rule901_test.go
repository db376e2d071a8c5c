package mrule

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHistory struct {
	count int64
	err   error
}

func (h fakeHistory) CountIncomingTransactions(_ context.Context, _ string, _, _ time.Time) (int64, error) {
	return h.count, h.err
}

func bandedConfig(t *testing.T) mmodel.RuleConfiguration {
	t.Helper()

	params, err := json.Marshal(map[string]any{"max_query_range_ms": 3_600_000})
	require.NoError(t, err)

	low, high := 0.0, 5.0

	return mmodel.RuleConfiguration{
		ID:      "rule-901",
		Version: "1",
		Configuration: mmodel.RuleDetail{
			Parameters: params,
			Bands: []mmodel.Band{
				{SubRuleRef: ".b01", Reason: "below threshold", Lower: &low, Upper: &high},
				{SubRuleRef: ".b02", Reason: "above threshold", Lower: &high},
			},
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

func TestEvaluateRule901_SelectsBandFromHistoryCount(t *testing.T) {
	result, err := EvaluateRule901(context.Background(), bandedConfig(t), acceptedPayload(), fakeHistory{count: 2})
	require.NoError(t, err)
	assert.Equal(t, ".b01", result.SubRuleRef)

	result, err = EvaluateRule901(context.Background(), bandedConfig(t), acceptedPayload(), fakeHistory{count: 9})
	require.NoError(t, err)
	assert.Equal(t, ".b02", result.SubRuleRef)
}

func TestEvaluateRule901_NonAcceptedStatusShortCircuitsToExitCondition(t *testing.T) {
	payload := acceptedPayload()
	payload.Transaction.Pacs002.TxInfAndSts[0].TxSts = "RJCT"

	result, err := EvaluateRule901(context.Background(), bandedConfig(t), payload, fakeHistory{count: 100})
	require.NoError(t, err)
	assert.Equal(t, ".x00", result.SubRuleRef)
}

func TestEvaluateRule901_MissingDataCacheErrors(t *testing.T) {
	payload := acceptedPayload()
	payload.DataCache = nil

	_, err := EvaluateRule901(context.Background(), bandedConfig(t), payload, fakeHistory{})
	assert.ErrorIs(t, err, constant.ErrMissingDataCache)
}

func TestEvaluateRule901_MissingTransactionErrors(t *testing.T) {
	_, err := EvaluateRule901(context.Background(), bandedConfig(t), mmodel.Payload{}, fakeHistory{})
	assert.ErrorIs(t, err, constant.ErrMissingTransaction)
}

func TestEvaluateRule901_NoBandMatchedErrors(t *testing.T) {
	cfg := bandedConfig(t)
	high := 5.0
	cfg.Configuration.Bands = []mmodel.Band{{SubRuleRef: ".b01", Upper: &high}}

	_, err := EvaluateRule901(context.Background(), cfg, acceptedPayload(), fakeHistory{count: 50})
	assert.ErrorIs(t, err, constant.ErrNoBandMatched)
}

func TestEvaluateRule901_HistoryErrorWrapsTransientDependency(t *testing.T) {
	_, err := EvaluateRule901(context.Background(), bandedConfig(t), acceptedPayload(), fakeHistory{err: assertErr{}})
	assert.ErrorIs(t, err, constant.ErrTransientDependency)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
