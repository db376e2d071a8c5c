// Package postgres is Rule-Executor's read-only history adapter: counting
// recent incoming transactions for Rule 901's banding query against the
// `transaction_relationship` table (spec.md §6), grounded on the Config
// plane's adapters/postgres/rule read-path conventions.
package postgres

import (
	"context"
	"time"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// HistoryRepository implements pkg/mrule.History against the relational
// transaction-relationship archive Intake writes.
type HistoryRepository struct {
	connection *libPostgres.PostgresConnection
}

// NewHistoryRepository returns a new HistoryRepository.
func NewHistoryRepository(pc *libPostgres.PostgresConnection) *HistoryRepository {
	r := &HistoryRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// CountIncomingTransactions counts successfully-settled transactions
// destined for debtorAccountID within [from, to), per spec.md §4.4's Rule
// 901 query.
func (r *HistoryRepository) CountIncomingTransactions(ctx context.Context, debtorAccountID string, from, to time.Time) (int64, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.count_incoming_transactions")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return 0, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transaction_relationship
		WHERE destination = $1 AND cre_dt_tm >= $2 AND cre_dt_tm < $3 AND tx_sts = $4
	`, debtorAccountID, from, to, mmodel.StatusAccepted)

	var count int64
	if err := row.Scan(&count); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to scan count row", err)
		return 0, err
	}

	return count, nil
}
