// Package postgres is Aggregator's terminal persistence adapter: one
// insert-only write into the `evaluation(id uuid pk, document jsonb)` table
// spec.md §6 names, grounded on the Config plane's adapters/postgres/rule
// write-path conventions.
package postgres

import (
	"context"
	"encoding/json"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// EvaluationRepository persists the terminal Payload for one completed
// message, per spec.md §4.6 step 5.
type EvaluationRepository struct {
	connection *libPostgres.PostgresConnection
}

// NewEvaluationRepository returns a new EvaluationRepository.
func NewEvaluationRepository(pc *libPostgres.PostgresConnection) *EvaluationRepository {
	r := &EvaluationRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Insert writes one evaluation row, stamped with id (a fresh v7), and its
// full Payload document.
func (r *EvaluationRepository) Insert(ctx context.Context, id string, payload mmodel.Payload) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.insert_evaluation")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to marshal evaluation payload", err)
		return err
	}

	_, err = db.ExecContext(ctx, `INSERT INTO evaluation (id, document) VALUES ($1, $2)`, id, body)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to insert evaluation row", err)
		return err
	}

	return nil
}
