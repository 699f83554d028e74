package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// DataReader loads CSV and Excel files into record sets
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for the given path, picking the format from
// the file extension
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// Read loads the file into a record set with an inferred field catalog
func (r *DataReader) Read() (*table.RecordSet, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, errors.UnsupportedFile(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
	if err != nil {
		return nil, err
	}
	return BuildRecordSet(rows)
}

// readExcelRows reads the first sheet of an Excel workbook
func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.UnsupportedFile("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	log.Printf("[DataReader] read %d rows from sheet %s", len(rows), sheets[0])
	return rows, nil
}

// readCSVRows reads a whole CSV file
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV parses CSV content from any reader. Ragged rows are tolerated;
// short rows leave trailing fields missing.
func ReadCSV(reader io.Reader) ([][]string, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV data")
	}
	return rows, nil
}

// BuildRecordSet converts raw string rows (header row first) into a record
// set. Empty cells become nil; everything else stays a trimmed string, and
// numeric leniency is applied later at extraction time.
func BuildRecordSet(rows [][]string) (*table.RecordSet, error) {
	if len(rows) < 2 {
		return nil, errors.UnsupportedFile("file must have a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]table.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(table.Record, len(headers))
		for j, name := range headers {
			var cell string
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell == "" {
				rec[name] = nil
			} else {
				rec[name] = cell
			}
		}
		records = append(records, rec)
	}

	fields := inferFields(headers, records)
	return table.NewRecordSet(fields, records), nil
}
