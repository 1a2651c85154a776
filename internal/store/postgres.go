package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "driver-portal/internal/common/errors"
	"driver-portal/internal/common/logger"
	"driver-portal/internal/models"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code for a primary key conflict.
const uniqueViolation = "23505"

// PostgresStore implements the same atomic contract on a SQL table. The
// primary key enforces id uniqueness, and UpdateAtomic holds a row lock for
// the whole read-modify-write window.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "postgres"}),
	}
}

// EnsureSchema creates the applications table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			id           TEXT PRIMARY KEY,
			status       TEXT NOT NULL,
			submitted_at TIMESTAMPTZ NOT NULL,
			fields       JSONB NOT NULL DEFAULT '{}'
		)`)
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, submitted_at, fields
		FROM applications
		ORDER BY submitted_at, id`)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (s *PostgresStore) AppendAtomic(ctx context.Context, app models.Application) ([]models.Application, error) {
	fieldsJSON, err := json.Marshal(app.Fields)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO applications (id, status, submitted_at, fields)
		VALUES ($1, $2, $3, $4)`,
		app.ID, string(app.Status), app.SubmittedAt, fieldsJSON)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, apperrors.NewDuplicateIDError(app.ID)
		}
		return nil, apperrors.NewStoreUnavailableError(fmt.Errorf("insert failed: %w", err))
	}

	return s.LoadAll(ctx)
}

func (s *PostgresStore) UpdateAtomic(ctx context.Context, id string, mutate func(*models.Application) error) (models.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Application{}, apperrors.NewStoreUnavailableError(err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, status, submitted_at, fields
		FROM applications
		WHERE id = $1
		FOR UPDATE`, id)

	app, err := scanApplication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Application{}, apperrors.NewRecordNotFoundError(id)
	}
	if err != nil {
		return models.Application{}, err
	}

	updated := app.Clone()
	if err := mutate(&updated); err != nil {
		return models.Application{}, err
	}
	updated.ID = app.ID
	updated.SubmittedAt = app.SubmittedAt

	fieldsJSON, err := json.Marshal(updated.Fields)
	if err != nil {
		return models.Application{}, apperrors.NewStoreUnavailableError(err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE applications SET status = $2, fields = $3 WHERE id = $1`,
		updated.ID, string(updated.Status), fieldsJSON); err != nil {
		return models.Application{}, apperrors.NewStoreUnavailableError(err)
	}

	if err := tx.Commit(); err != nil {
		return models.Application{}, apperrors.NewStoreUnavailableError(err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (models.Application, error) {
	var app models.Application
	var status string
	var fieldsJSON []byte

	if err := row.Scan(&app.ID, &status, &app.SubmittedAt, &fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Application{}, err
		}
		return models.Application{}, apperrors.NewStoreUnavailableError(err)
	}

	app.Status = models.ParseStatus(status)
	app.Fields = map[string]interface{}{}
	if len(fieldsJSON) > 0 {
		if err := json.Unmarshal(fieldsJSON, &app.Fields); err != nil {
			return models.Application{}, apperrors.NewStoreUnavailableError(err)
		}
	}
	return app, nil
}
