package ports

import (
	"context"

	"chartlab/domain/dataset"
)

// DatasetRepository persists dataset metadata. The record data itself is
// in-memory only; the repository exists so a restart can list what was
// loaded before.
type DatasetRepository interface {
	Create(ctx context.Context, ds *dataset.Dataset) error
	GetByID(ctx context.Context, id string) (*dataset.Dataset, error)
	List(ctx context.Context) ([]*dataset.Dataset, error)
	Delete(ctx context.Context, id string) error
}
