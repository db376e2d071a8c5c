package mrule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// History is the narrow read port rule implementations use to query
// transaction history. Rule-Executor wires this to its Postgres adapter;
// tests wire it to an in-memory fake.
type History interface {
	CountIncomingTransactions(ctx context.Context, debtorAccountID string, from, to time.Time) (int64, error)
}

// rule901Parameters is the shape Rule 901 expects inside
// RuleConfiguration.Configuration.Parameters.
type rule901Parameters struct {
	MaxQueryRangeMS int64 `json:"max_query_range_ms"`
}

const exitConditionRef = ".x00"

func exitConditionFor(conditions []mmodel.ExitCondition, ref string) (mmodel.ExitCondition, bool) {
	for _, c := range conditions {
		if c.SubRuleRef == ref {
			return c, true
		}
	}

	return mmodel.ExitCondition{}, false
}

// EvaluateRule901 is the reference rule: it counts recent incoming
// transactions for the debtor account within parameters.max_query_range_ms
// milliseconds ending at the pacs.002 creation time, excluding non-ACCC
// status messages (which short-circuit to the .x00 exit condition), per
// spec.md §4.4 and §8 scenario 3.
func EvaluateRule901(ctx context.Context, cfg mmodel.RuleConfiguration, payload mmodel.Payload, history History) (mmodel.RuleResult, error) {
	if payload.Transaction.Pacs002 == nil {
		return mmodel.RuleResult{}, constant.ErrMissingTransaction
	}

	status, ok := payload.Transaction.Pacs002.PrimaryStatus()
	if !ok {
		return mmodel.RuleResult{}, constant.ErrMissingTransaction
	}

	if status.TxSts != mmodel.StatusAccepted {
		ec, found := exitConditionFor(cfg.Configuration.ExitConditions, exitConditionRef)
		if !found {
			ec = mmodel.ExitCondition{
				SubRuleRef: exitConditionRef,
				Reason:     "Incoming transaction is unsuccessful",
			}
		}

		return mmodel.RuleResult{
			ID:         cfg.ID,
			Version:    cfg.Version,
			SubRuleRef: ec.SubRuleRef,
			Reason:     ec.Reason,
		}, nil
	}

	if payload.DataCache == nil {
		return mmodel.RuleResult{}, constant.ErrMissingDataCache
	}

	if len(cfg.Configuration.Bands) == 0 || len(cfg.Configuration.Parameters) == 0 {
		return mmodel.RuleResult{}, constant.ErrMalformedRuleConfiguration
	}

	var params rule901Parameters
	if err := json.Unmarshal(cfg.Configuration.Parameters, &params); err != nil {
		return mmodel.RuleResult{}, constant.ErrMalformedRuleConfiguration
	}

	to := payload.Transaction.Pacs002.CreDtTm
	from := to.Add(-time.Duration(params.MaxQueryRangeMS) * time.Millisecond)

	count, err := history.CountIncomingTransactions(ctx, payload.DataCache.DebtorAccountID, from, to)
	if err != nil {
		return mmodel.RuleResult{}, fmt.Errorf("%w: %w", constant.ErrTransientDependency, err)
	}

	band, found := SelectBand(float64(count), cfg.Configuration.Bands)
	if !found {
		return mmodel.RuleResult{}, constant.ErrNoBandMatched
	}

	return mmodel.RuleResult{
		ID:         cfg.ID,
		Version:    cfg.Version,
		SubRuleRef: band.SubRuleRef,
		Reason:     band.Reason,
	}, nil
}
