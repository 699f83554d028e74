package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"chartlab/domain/dataset"
	"chartlab/domain/table"
	"chartlab/internal/errors"
	"chartlab/ports"
)

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// EnsureSchema creates the datasets table if it does not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		original_filename TEXT NOT NULL,
		source TEXT NOT NULL,
		record_count INTEGER NOT NULL,
		field_count INTEGER NOT NULL,
		missing_rate DOUBLE PRECISION NOT NULL,
		fields JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to ensure datasets schema")
	}
	return nil
}

// Create inserts a new dataset into the database
func (r *datasetRepository) Create(ctx context.Context, ds *dataset.Dataset) error {
	fieldsJSON, err := json.Marshal(ds.Fields)
	if err != nil {
		return errors.Wrap(err, "failed to marshal field catalog")
	}

	query := `INSERT INTO datasets (
		id, name, original_filename, source, record_count, field_count,
		missing_rate, fields, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		ds.ID, ds.Name, ds.OriginalFilename, ds.Source, ds.RecordCount,
		ds.FieldCount, ds.MissingRate, fieldsJSON, ds.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create dataset")
	}
	return nil
}

// GetByID retrieves a dataset by its ID
func (r *datasetRepository) GetByID(ctx context.Context, id string) (*dataset.Dataset, error) {
	query := `SELECT id, name, original_filename, source, record_count,
		field_count, missing_rate, fields, created_at
	FROM datasets WHERE id = $1`

	var ds dataset.Dataset
	var fieldsJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ds.ID, &ds.Name, &ds.OriginalFilename, &ds.Source, &ds.RecordCount,
		&ds.FieldCount, &ds.MissingRate, &fieldsJSON, &ds.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound(fmt.Sprintf("dataset %s", id))
		}
		return nil, errors.Wrap(err, "failed to get dataset")
	}

	if err := unmarshalFields(fieldsJSON, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// List retrieves all datasets, newest first
func (r *datasetRepository) List(ctx context.Context) ([]*dataset.Dataset, error) {
	query := `SELECT id, name, original_filename, source, record_count,
		field_count, missing_rate, fields, created_at
	FROM datasets ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query datasets")
	}
	defer rows.Close()

	var datasets []*dataset.Dataset
	for rows.Next() {
		var ds dataset.Dataset
		var fieldsJSON []byte
		err := rows.Scan(
			&ds.ID, &ds.Name, &ds.OriginalFilename, &ds.Source, &ds.RecordCount,
			&ds.FieldCount, &ds.MissingRate, &fieldsJSON, &ds.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan dataset")
		}
		if err := unmarshalFields(fieldsJSON, &ds); err != nil {
			return nil, err
		}
		datasets = append(datasets, &ds)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate datasets")
	}
	return datasets, nil
}

// Delete removes a dataset from the database
func (r *datasetRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete dataset")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return errors.NotFound(fmt.Sprintf("dataset %s", id))
	}
	return nil
}

func unmarshalFields(raw []byte, ds *dataset.Dataset) error {
	if len(raw) == 0 {
		return nil
	}
	var fields []table.Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errors.Wrap(err, "failed to unmarshal field catalog")
	}
	ds.Fields = fields
	return nil
}
