package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// DataCache is the canonicalised enrichment Intake derives from the inbound
// document: the identifiers and amounts every downstream rule and typology
// needs without re-parsing the original message.
type DataCache struct {
	DebtorID          string          `json:"debtor_id" msgpack:"debtor_id"`
	DebtorAccountID   string          `json:"debtor_account_id" msgpack:"debtor_account_id"`
	CreditorID        string          `json:"creditor_id" msgpack:"creditor_id"`
	CreditorAccountID string          `json:"creditor_account_id" msgpack:"creditor_account_id"`
	CreDtTm           time.Time       `json:"cre_dt_tm" msgpack:"cre_dt_tm"`
	InstdAmt          decimal.Decimal `json:"instd_amt" msgpack:"instd_amt"`
	IntrBkSttlmAmt    decimal.Decimal `json:"intr_bk_sttlm_amt" msgpack:"intr_bk_sttlm_amt"`
	XchgRate          decimal.Decimal `json:"xchg_rate" msgpack:"xchg_rate"`
}

// Transaction is the tagged-variant envelope around whichever document type
// a Payload is carrying.
type Transaction struct {
	Pacs008 *Pacs008Document `json:"pacs008,omitempty" msgpack:"pacs008,omitempty"`
	Pacs002 *Pacs002Document `json:"pacs002,omitempty" msgpack:"pacs002,omitempty"`
}

// MsgID extracts the message id for whichever variant is populated.
func (t Transaction) MsgID() (string, bool) {
	switch {
	case t.Pacs008 != nil:
		return t.Pacs008.MsgID, true
	case t.Pacs002 != nil:
		return t.Pacs002.MsgID, true
	default:
		return "", false
	}
}

// TxType reports which ISO 20022 message this transaction carries.
func (t Transaction) TxType() (TxType, bool) {
	switch {
	case t.Pacs008 != nil:
		return TxTypePacs008, true
	case t.Pacs002 != nil:
		return TxTypePacs002, true
	default:
		return "", false
	}
}

// Payload is the message in flight through the evaluation pipeline. Each
// stage exclusively owns its in-flight copy (spec.md §3 Ownership); fields
// are progressively populated as the payload moves downstream.
type Payload struct {
	TxTp               TxType                `json:"tx_tp" msgpack:"tx_tp"`
	Transaction        Transaction           `json:"transaction" msgpack:"transaction"`
	DataCache          *DataCache            `json:"data_cache,omitempty" msgpack:"data_cache,omitempty"`
	Routing            *RoutingConfiguration `json:"routing,omitempty" msgpack:"routing,omitempty"`
	RuleResult         *RuleResult           `json:"rule_result,omitempty" msgpack:"rule_result,omitempty"`
	TypologyResult     *TypologyResult       `json:"typology_result,omitempty" msgpack:"typology_result,omitempty"`
	AggregationResult  *AggregationResult    `json:"aggregation_result,omitempty" msgpack:"aggregation_result,omitempty"`
}

// MsgID is a convenience accessor matching spec.md §4.3 step 1.
func (p Payload) MsgID() (string, bool) {
	return p.Transaction.MsgID()
}
