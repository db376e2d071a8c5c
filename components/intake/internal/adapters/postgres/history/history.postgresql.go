// Package history is Intake's transaction-relationship adapter over the
// `transaction_relationship` table spec.md §6 names: the shared archive
// Rule-Executor's history reader counts against, and the lookup Intake uses
// to rebuild a pacs.002's DataCache from its originating pacs.008. Grounded
// on the Rule-Executor stage's adapters/postgres.HistoryRepository.
package history

import (
	"context"
	"database/sql"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// Repository writes and reads the transaction-relationship archive.
type Repository struct {
	connection *libPostgres.PostgresConnection
}

// NewRepository returns a new Repository.
func NewRepository(pc *libPostgres.PostgresConnection) *Repository {
	r := &Repository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Insert writes one transaction-relationship row, per spec.md §4.2 step 3.
// Transactions are append-only: re-posting the same document inserts a new
// row rather than upserting.
func (r *Repository) Insert(ctx context.Context, rel mmodel.TransactionRelationship) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.insert_transaction_relationship")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO transaction_relationship
			(source, destination, amt_unit, amt_ccy, amt_nanos, cre_dt_tm, end_to_end_id, msg_id, pmt_inf_id, tx_tp, lat, lon, tx_sts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, rel.Source, rel.Destination, rel.AmtUnit, rel.AmtCcy, rel.AmtNanos, rel.CreDtTm, rel.EndToEndID, rel.MsgID, rel.PmtInfID, rel.TxTp, rel.Lat, rel.Lon, rel.TxSts)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to insert transaction relationship row", err)
		return err
	}

	return nil
}

// FindByEndToEndID returns the most recent relationship row for
// endToEndID, the pacs.002 path's fallback per spec.md §4.2 step 2 when the
// originating pacs.008 DataCache isn't cached.
func (r *Repository) FindByEndToEndID(ctx context.Context, endToEndID string) (mmodel.TransactionRelationship, bool, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_transaction_relationship")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return mmodel.TransactionRelationship{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT source, destination, amt_unit, amt_ccy, amt_nanos, cre_dt_tm, end_to_end_id, msg_id, pmt_inf_id, tx_tp, lat, lon, tx_sts
		FROM transaction_relationship
		WHERE end_to_end_id = $1
		ORDER BY cre_dt_tm DESC
		LIMIT 1
	`, endToEndID)

	var rel mmodel.TransactionRelationship

	err = row.Scan(&rel.Source, &rel.Destination, &rel.AmtUnit, &rel.AmtCcy, &rel.AmtNanos, &rel.CreDtTm,
		&rel.EndToEndID, &rel.MsgID, &rel.PmtInfID, &rel.TxTp, &rel.Lat, &rel.Lon, &rel.TxSts)
	if err == sql.ErrNoRows {
		return mmodel.TransactionRelationship{}, false, nil
	}

	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to scan transaction relationship row", err)
		return mmodel.TransactionRelationship{}, false, err
	}

	return rel, true, nil
}
