// Package routing is the Postgres-backed Repository for RoutingConfiguration
// rows, grounded on the teacher's
// components/consumer/internal/adapters/postgresql/transaction package
// (libPostgres.PostgresConnection, squirrel query building, ToEntity/
// FromEntity conversion, pgconn.PgError unwrapping) and spec.md §6's
// `routing(id uuid pk, configuration jsonb)` table contract.
package routing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	"github.com/Masterminds/squirrel"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the narrow persistence port the Config plane's command and
// query services use for routing configurations.
//
//go:generate mockgen --destination=routing.mock.go --package=routing . Repository
type Repository interface {
	Create(ctx context.Context, cfg *mmodel.RoutingConfiguration) (*mmodel.RoutingConfiguration, error)
	Update(ctx context.Context, uuid string, cfg *mmodel.RoutingConfiguration) (*mmodel.RoutingConfiguration, error)
	Delete(ctx context.Context, uuid string) error
	Find(ctx context.Context, uuid string) (*mmodel.RoutingConfiguration, error)
	FindActive(ctx context.Context) (*mmodel.RoutingConfiguration, error)
	FindAll(ctx context.Context) ([]*mmodel.RoutingConfiguration, error)
}

// PostgreSQLRepository is the pgx/database-sql implementation of Repository.
type PostgreSQLRepository struct {
	connection *libPostgres.PostgresConnection
	tableName  string
	db         *sql.DB // set directly by tests, bypassing connection
}

// NewPostgreSQLRepository returns a new PostgreSQLRepository, panicking on a
// dead connection the same way the teacher's repositories do at startup.
func NewPostgreSQLRepository(pc *libPostgres.PostgresConnection) *PostgreSQLRepository {
	r := &PostgreSQLRepository{connection: pc, tableName: "routing"}

	if _, err := r.connection.GetDB(); err != nil {
		panic("Failed to connect database")
	}

	return r
}

func (r *PostgreSQLRepository) getDB() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	return r.connection.GetDB()
}

func scanRow(row interface{ Scan(...any) error }) (*mmodel.RoutingConfiguration, error) {
	var (
		id   string
		body []byte
	)

	if err := row.Scan(&id, &body); err != nil {
		return nil, err
	}

	var cfg mmodel.RoutingConfiguration
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, err
	}

	cfg.UUID = id

	return &cfg, nil
}

// Create inserts a new routing row. Per spec.md §3, "active" uniqueness is
// an expected, not schema-enforced, invariant — the command service is
// responsible for rejecting a second active routing before calling this.
func (r *PostgreSQLRepository) Create(ctx context.Context, cfg *mmodel.RoutingConfiguration) (*mmodel.RoutingConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_routing")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	id := libCommons.GenerateUUIDv7().String()
	cfg.UUID = id

	body, err := json.Marshal(cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to marshal routing configuration", err)
		return nil, err
	}

	_, err = db.ExecContext(ctx, `INSERT INTO routing (id, configuration) VALUES ($1, $2)`, id, body)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to execute insert query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, constant.ValidationError{
				EntityType: reflect.TypeOf(mmodel.RoutingConfiguration{}).Name(),
				Code:       pgErr.Code,
				Message:    pgErr.Message,
			}
		}

		return nil, err
	}

	return cfg, nil
}

// Update overwrites the configuration jsonb for an existing routing row.
func (r *PostgreSQLRepository) Update(ctx context.Context, uuid string, cfg *mmodel.RoutingConfiguration) (*mmodel.RoutingConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.update_routing")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	cfg.UUID = uuid

	body, err := json.Marshal(cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to marshal routing configuration", err)
		return nil, err
	}

	result, err := db.ExecContext(ctx, `UPDATE routing SET configuration = $1 WHERE id = $2`, body, uuid)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to execute update query", err)
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rows affected", err)
		return nil, err
	}

	if rowsAffected == 0 {
		return nil, constant.EntityNotFoundError{
			EntityType: reflect.TypeOf(mmodel.RoutingConfiguration{}).Name(),
			Code:       "0003",
			Message:    "routing configuration not found: " + uuid,
		}
	}

	return cfg, nil
}

// Delete removes a routing row by its surrogate id.
func (r *PostgreSQLRepository) Delete(ctx context.Context, uuid string) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.delete_routing")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM routing WHERE id = $1`, uuid)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to execute delete query", err)
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rows affected", err)
		return err
	}

	if rowsAffected == 0 {
		return constant.EntityNotFoundError{
			EntityType: reflect.TypeOf(mmodel.RoutingConfiguration{}).Name(),
			Code:       "0003",
			Message:    "routing configuration not found: " + uuid,
		}
	}

	return nil
}

// Find retrieves a routing row by surrogate id.
func (r *PostgreSQLRepository) Find(ctx context.Context, uuid string) (*mmodel.RoutingConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_routing")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	row := db.QueryRowContext(ctx, `SELECT id, configuration FROM routing WHERE id = $1`, uuid)

	cfg, err := scanRow(row)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.EntityNotFoundError{
				EntityType: reflect.TypeOf(mmodel.RoutingConfiguration{}).Name(),
				Code:       "0003",
				Message:    "routing configuration not found: " + uuid,
			}
		}

		return nil, err
	}

	return cfg, nil
}

// FindActive retrieves the single routing row whose configuration.active is
// true, per spec.md §6's `configuration->>'active' = 'true'` contract.
func (r *PostgreSQLRepository) FindActive(ctx context.Context) (*mmodel.RoutingConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_active_routing")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	query, args, err := squirrel.Select("id", "configuration").
		From(r.tableName).
		Where("configuration->>'active' = 'true'").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to build query", err)
		return nil, err
	}

	row := db.QueryRowContext(ctx, query, args...)

	cfg, err := scanRow(row)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.ErrNoActiveRouting
		}

		return nil, err
	}

	return cfg, nil
}

// FindAll retrieves every routing row, ordered by id ascending (oldest
// first, since ids are time-ordered v7 UUIDs).
func (r *PostgreSQLRepository) FindAll(ctx context.Context) ([]*mmodel.RoutingConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_all_routing")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id, configuration FROM routing ORDER BY id`)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to execute query", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*mmodel.RoutingConfiguration, 0)

	for rows.Next() {
		cfg, err := scanRow(rows)
		if err != nil {
			libOpentelemetry.HandleSpanError(&span, "Failed to scan row", err)
			return nil, err
		}

		out = append(out, cfg)
	}

	if err := rows.Err(); err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get rows", err)
		return nil, err
	}

	return out, nil
}
