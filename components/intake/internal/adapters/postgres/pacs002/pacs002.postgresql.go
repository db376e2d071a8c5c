// Package pacs002 is Intake's raw-document archive adapter for the
// `pacs002(id uuid pk, document jsonb)` table spec.md §6 names, grounded on
// the sibling pacs008 archive adapter.
package pacs002

import (
	"context"
	"encoding/json"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
)

// ArchiveRepository is the append-only raw pacs.002 document store.
type ArchiveRepository struct {
	connection *libPostgres.PostgresConnection
}

// NewArchiveRepository returns a new ArchiveRepository.
func NewArchiveRepository(pc *libPostgres.PostgresConnection) *ArchiveRepository {
	r := &ArchiveRepository{connection: pc}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

// Insert writes one append-only pacs002 row keyed by a fresh v7 id.
func (r *ArchiveRepository) Insert(ctx context.Context, id string, doc mmodel.Pacs002Document) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.insert_pacs002")
	defer span.End()

	db, err := r.connection.GetDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to marshal pacs002 document", err)
		return err
	}

	_, err = db.ExecContext(ctx, `INSERT INTO pacs002 (id, document) VALUES ($1, $2)`, id, body)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to insert pacs002 row", err)
		return err
	}

	return nil
}
