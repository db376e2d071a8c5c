// Package rule is the Postgres-backed Repository for RuleConfiguration rows,
// grounded the same way as the sibling routing package, against spec.md §6's
// `rule(uuid uuid pk, id text, version text, configuration jsonb)` table
// with a unique `(id, version)` constraint.
package rule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"reflect"

	libCommons "github.com/LerianStudio/lib-commons/v2/commons"
	libOpentelemetry "github.com/LerianStudio/lib-commons/v2/commons/opentelemetry"
	libPostgres "github.com/LerianStudio/lib-commons/v2/commons/postgres"
	"github.com/fraudmesh/evalengine/pkg/constant"
	"github.com/fraudmesh/evalengine/pkg/mmodel"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the narrow persistence port for rule configurations.
//
//go:generate mockgen --destination=rule.mock.go --package=rule . Repository
type Repository interface {
	Create(ctx context.Context, cfg *mmodel.RuleConfiguration) (*mmodel.RuleConfiguration, error)
	Update(ctx context.Context, id, version string, cfg *mmodel.RuleConfiguration) (*mmodel.RuleConfiguration, error)
	Delete(ctx context.Context, id, version string) error
	Find(ctx context.Context, id, version string) (*mmodel.RuleConfiguration, error)
	FindAll(ctx context.Context) ([]*mmodel.RuleConfiguration, error)
}

// PostgreSQLRepository is the pgx/database-sql implementation of Repository.
type PostgreSQLRepository struct {
	connection *libPostgres.PostgresConnection
	db         *sql.DB // set directly by tests, bypassing connection
}

// NewPostgreSQLRepository returns a new PostgreSQLRepository.
func NewPostgreSQLRepository(pc *libPostgres.PostgresConnection) *PostgreSQLRepository {
	r := &PostgreSQLRepository{connection: pc}

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

func scanRow(row interface{ Scan(...any) error }) (*mmodel.RuleConfiguration, error) {
	var (
		uuid, id, version string
		body              []byte
	)

	if err := row.Scan(&uuid, &id, &version, &body); err != nil {
		return nil, err
	}

	var cfg mmodel.RuleConfiguration
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, err
	}

	cfg.ID, cfg.Version = id, version

	return &cfg, nil
}

// Create inserts a new rule row keyed by a fresh surrogate uuid.
func (r *PostgreSQLRepository) Create(ctx context.Context, cfg *mmodel.RuleConfiguration) (*mmodel.RuleConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.create_rule")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	body, err := json.Marshal(cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to marshal rule configuration", err)
		return nil, err
	}

	uuid := libCommons.GenerateUUIDv7().String()

	_, err = db.ExecContext(ctx, `INSERT INTO rule (uuid, id, version, configuration) VALUES ($1, $2, $3, $4)`,
		uuid, cfg.ID, cfg.Version, body)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to execute insert query", err)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return nil, constant.ValidationError{
				EntityType: reflect.TypeOf(mmodel.RuleConfiguration{}).Name(),
				Code:       pgErr.Code,
				Message:    pgErr.Message,
			}
		}

		return nil, err
	}

	return cfg, nil
}

// Update overwrites the configuration jsonb for the row matching the
// explicit (id, version) pair — per spec.md §9's open-question resolution,
// never binding `id` to both parameters.
func (r *PostgreSQLRepository) Update(ctx context.Context, id, version string, cfg *mmodel.RuleConfiguration) (*mmodel.RuleConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.update_rule")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	cfg.ID, cfg.Version = id, version

	body, err := json.Marshal(cfg)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to marshal rule configuration", err)
		return nil, err
	}

	result, err := db.ExecContext(ctx, `UPDATE rule SET configuration = $1 WHERE id = $2 AND version = $3`,
		body, id, version)
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
			EntityType: reflect.TypeOf(mmodel.RuleConfiguration{}).Name(),
			Code:       "0003",
			Message:    "rule configuration not found: " + id + "." + version,
		}
	}

	return cfg, nil
}

// Delete removes the row matching (id, version).
func (r *PostgreSQLRepository) Delete(ctx context.Context, id, version string) error {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.delete_rule")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return err
	}

	result, err := db.ExecContext(ctx, `DELETE FROM rule WHERE id = $1 AND version = $2`, id, version)
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
			EntityType: reflect.TypeOf(mmodel.RuleConfiguration{}).Name(),
			Code:       "0003",
			Message:    "rule configuration not found: " + id + "." + version,
		}
	}

	return nil
}

// Find retrieves the row matching (id, version).
func (r *PostgreSQLRepository) Find(ctx context.Context, id, version string) (*mmodel.RuleConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_rule")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	row := db.QueryRowContext(ctx, `SELECT uuid, id, version, configuration FROM rule WHERE id = $1 AND version = $2`, id, version)

	cfg, err := scanRow(row)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to scan row", err)

		if errors.Is(err, sql.ErrNoRows) {
			return nil, constant.EntityNotFoundError{
				EntityType: reflect.TypeOf(mmodel.RuleConfiguration{}).Name(),
				Code:       "0003",
				Message:    "rule configuration not found: " + id + "." + version,
			}
		}

		return nil, err
	}

	return cfg, nil
}

// FindAll retrieves every rule row.
func (r *PostgreSQLRepository) FindAll(ctx context.Context) ([]*mmodel.RuleConfiguration, error) {
	tracer := libCommons.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "postgres.find_all_rule")
	defer span.End()

	db, err := r.getDB()
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to get database connection", err)
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT uuid, id, version, configuration FROM rule ORDER BY id, version`)
	if err != nil {
		libOpentelemetry.HandleSpanError(&span, "Failed to execute query", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*mmodel.RuleConfiguration, 0)

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
