package mmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyID is the minimal identification a debtor/creditor carries: enough
// for Intake to derive pseudonym-registration and data-cache identifiers
// without decoding the full ISO 20022 party schema (out of scope per
// spec.md §1).
type PartyID struct {
	ID        string `json:"id" msgpack:"id"`
	AccountID string `json:"account_id" msgpack:"account_id"`
}

// Pacs008Document is the minimal typed shape of an ISO 20022
// pacs.008.001.12 FIToFICustomerCreditTransfer this system inspects.
type Pacs008Document struct {
	MsgID             string          `json:"msg_id" msgpack:"msg_id"`
	EndToEndID        string          `json:"end_to_end_id" msgpack:"end_to_end_id"`
	CreDtTm           time.Time       `json:"cre_dt_tm" msgpack:"cre_dt_tm"`
	Debtor            PartyID         `json:"debtor" msgpack:"debtor"`
	Creditor          PartyID         `json:"creditor" msgpack:"creditor"`
	InstdAmt          decimal.Decimal `json:"instd_amt" msgpack:"instd_amt"`
	InstdAmtCcy       string          `json:"instd_amt_ccy" msgpack:"instd_amt_ccy"`
	IntrBkSttlmAmt    decimal.Decimal `json:"intr_bk_sttlm_amt" msgpack:"intr_bk_sttlm_amt"`
	IntrBkSttlmAmtCcy string          `json:"intr_bk_sttlm_amt_ccy" msgpack:"intr_bk_sttlm_amt_ccy"`
	XchgRate          *decimal.Decimal `json:"xchg_rate,omitempty" msgpack:"xchg_rate,omitempty"`
	PmtInfID          string          `json:"pmt_inf_id" msgpack:"pmt_inf_id"`
}

// TxInfAndSts is the status line Intake and Rule 901 read out of a
// pacs.002.001.12 document.
type TxInfAndSts struct {
	OrgnlEndToEndID string `json:"orgnl_end_to_end_id" msgpack:"orgnl_end_to_end_id"`
	TxSts           string `json:"tx_sts" msgpack:"tx_sts"`
}

// StatusAccepted is the only "successful" status code Rule 901 recognises;
// anything else short-circuits to the exit condition per spec.md §4.4 and
// §8 scenario 3.
const StatusAccepted = "ACCC"

// Pacs002Document is the minimal typed shape of an ISO 20022
// pacs.002.001.12 FIToFIPaymentStatusReport this system inspects.
type Pacs002Document struct {
	MsgID         string        `json:"msg_id" msgpack:"msg_id"`
	CreDtTm       time.Time     `json:"cre_dt_tm" msgpack:"cre_dt_tm"`
	TxInfAndSts   []TxInfAndSts `json:"tx_inf_and_sts" msgpack:"tx_inf_and_sts"`
}

// PrimaryStatus returns the status of the first status line, which is what
// Rule 901's short-circuit inspects; false if the document carries none.
func (d Pacs002Document) PrimaryStatus() (TxInfAndSts, bool) {
	if len(d.TxInfAndSts) == 0 {
		return TxInfAndSts{}, false
	}

	return d.TxInfAndSts[0], true
}
