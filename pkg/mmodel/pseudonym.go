package mmodel

import "time"

// TransactionRelationship is the derived edge Intake writes alongside a
// pseudonym registration, matching the `transaction_relationship` table
// contract in spec.md §6.
type TransactionRelationship struct {
	Source       string          `json:"source" msgpack:"source"`
	Destination  string          `json:"destination" msgpack:"destination"`
	AmtUnit      int64           `json:"amt_unit" msgpack:"amt_unit"`
	AmtCcy       string          `json:"amt_ccy" msgpack:"amt_ccy"`
	AmtNanos     int32           `json:"amt_nanos" msgpack:"amt_nanos"`
	CreDtTm      time.Time       `json:"cre_dt_tm" msgpack:"cre_dt_tm"`
	EndToEndID   string          `json:"end_to_end_id" msgpack:"end_to_end_id"`
	MsgID        string          `json:"msg_id" msgpack:"msg_id"`
	PmtInfID     string          `json:"pmt_inf_id" msgpack:"pmt_inf_id"`
	TxTp         TxType          `json:"tx_tp" msgpack:"tx_tp"`
	Lat          *float64        `json:"lat,omitempty" msgpack:"lat,omitempty"`
	Lon          *float64        `json:"lon,omitempty" msgpack:"lon,omitempty"`
	TxSts        string          `json:"tx_sts,omitempty" msgpack:"tx_sts,omitempty"`
}

// CreatePseudonymRequest is the payload Intake sends to the pseudonym
// service, treated per spec.md §1 as an external collaborator specified
// only at this interface boundary.
type CreatePseudonymRequest struct {
	DebtorID          string                  `json:"debtor_id" msgpack:"debtor_id"`
	DebtorAccountID   string                  `json:"debtor_account_id" msgpack:"debtor_account_id"`
	CreditorID        string                  `json:"creditor_id" msgpack:"creditor_id"`
	CreditorAccountID string                  `json:"creditor_account_id" msgpack:"creditor_account_id"`
	Relationship      TransactionRelationship `json:"relationship" msgpack:"relationship"`
}

// CreatePseudonymResponse is the minimal ack the pseudonym service returns.
type CreatePseudonymResponse struct {
	DebtorPseudonym   string `json:"debtor_pseudonym" msgpack:"debtor_pseudonym"`
	CreditorPseudonym string `json:"creditor_pseudonym" msgpack:"creditor_pseudonym"`
}
