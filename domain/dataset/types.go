package dataset

import (
	"time"

	"github.com/google/uuid"

	"chartlab/domain/table"
)

// Dataset is the metadata of one loaded tabular dataset. The records
// themselves live in the in-memory store; only this summary is persisted.
type Dataset struct {
	ID               string        `json:"id" db:"id"`
	Name             string        `json:"name" db:"name"`
	OriginalFilename string        `json:"original_filename" db:"original_filename"`
	Source           string        `json:"source" db:"source"` // "upload", "sample", "synthetic"
	RecordCount      int           `json:"record_count" db:"record_count"`
	FieldCount       int           `json:"field_count" db:"field_count"`
	MissingRate      float64       `json:"missing_rate" db:"missing_rate"`
	Fields           []table.Field `json:"fields" db:"-"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
}

// New builds dataset metadata from a loaded record set
func New(name, filename, source string, rs *table.RecordSet) *Dataset {
	fields := rs.Fields()
	missing := 0
	for _, f := range fields {
		missing += f.MissingCount
	}
	totalCells := rs.Len() * len(fields)
	rate := 0.0
	if totalCells > 0 {
		rate = float64(missing) / float64(totalCells)
	}
	return &Dataset{
		ID:               uuid.NewString(),
		Name:             name,
		OriginalFilename: filename,
		Source:           source,
		RecordCount:      rs.Len(),
		FieldCount:       len(fields),
		MissingRate:      rate,
		Fields:           fields,
		CreatedAt:        time.Now(),
	}
}

// NumericFields lists the fields classified numeric, for selection UIs
func (d *Dataset) NumericFields() []string {
	var names []string
	for _, f := range d.Fields {
		if f.Type == table.FieldNumeric {
			names = append(names, f.Name)
		}
	}
	return names
}
