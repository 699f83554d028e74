package ports

import (
	"chartlab/domain/table"
)

// DatasetReader loads one tabular source into a record set plus its inferred
// field catalog. Implementations own format concerns (CSV, XLSX); the core
// only ever sees records.
type DatasetReader interface {
	Read() (*table.RecordSet, error)
}
