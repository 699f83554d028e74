package ui

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"chartlab/adapters/tabular"
	"chartlab/domain/dataset"
	"chartlab/internal/errors"
	"chartlab/internal/testkit"
	"chartlab/ports"
)

// handleUpload ingests a CSV or Excel file from a multipart form. The file is
// staged in the temp dir only long enough to parse it; records live in memory
// afterwards.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > s.config.Upload.MaxFileSize {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf(
			"file exceeds the %d MB upload limit", s.config.Upload.MaxFileSize/(1024*1024))))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		s.respondError(c, errors.UnsupportedFile(fmt.Sprintf("unsupported file extension %q", ext)))
		return
	}

	tmpFile, err := os.CreateTemp(s.config.Upload.TempDir, "upload-*"+ext)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to stage upload"))
		return
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		s.respondError(c, errors.Wrap(err, "failed to save upload"))
		return
	}

	s.registerDataset(c, tabular.NewDataReader(tmpPath), fileHeader.Filename, "upload")
}

// handleListSamples lists the CSV/Excel files available in the sample data
// directory
func (s *Server) handleListSamples(c *gin.Context) {
	entries, err := os.ReadDir(s.config.Upload.SampleDataDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusOK, gin.H{"samples": []string{}})
			return
		}
		s.respondError(c, errors.Wrap(err, "failed to list sample data"))
		return
	}

	samples := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".csv" || ext == ".xlsx" {
			samples = append(samples, entry.Name())
		}
	}
	c.JSON(http.StatusOK, gin.H{"samples": samples})
}

// handleLoadSample loads one bundled sample file by name
func (s *Server) handleLoadSample(c *gin.Context) {
	// Base strips any path components, so samples outside the directory are
	// unreachable.
	name := filepath.Base(c.Param("name"))
	path := filepath.Join(s.config.Upload.SampleDataDir, name)
	s.registerDataset(c, tabular.NewDataReader(path), name, "sample")
}

// registerDataset parses a tabular source, stores the records and responds
// with the new dataset's metadata
func (s *Server) registerDataset(c *gin.Context, reader ports.DatasetReader, filename, source string) {
	rs, err := reader.Read()
	if err != nil {
		s.respondError(c, err)
		return
	}

	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	meta := dataset.New(name, filename, source, rs)
	s.store.Put(meta, rs)

	if s.repo != nil {
		if err := s.repo.Create(c.Request.Context(), meta); err != nil {
			// Persistence is best-effort; the in-memory dataset is already usable.
			s.logger.Warn("failed to persist dataset metadata: %v", err)
		}
	}

	s.logger.Info("loaded dataset %s (%s): %d records, %d fields",
		meta.ID, filename, meta.RecordCount, meta.FieldCount)
	c.JSON(http.StatusCreated, meta)
}

// syntheticRequest tunes the synthetic dataset generator. Zero values fall
// back to the generator defaults.
type syntheticRequest struct {
	Rows        int     `json:"rows"`
	Seed        int64   `json:"seed"`
	MissingRate float64 `json:"missing_rate"`
}

// handleGenerateSynthetic loads a seeded synthetic dataset without any file.
// The same request body always produces the same records.
func (s *Server) handleGenerateSynthetic(c *gin.Context) {
	var req syntheticRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.respondError(c, errors.InvalidInput("invalid synthetic request body"))
			return
		}
	}

	config := testkit.DefaultGeneratorConfig()
	if req.Rows > 0 {
		config.RowCount = req.Rows
	}
	if req.Seed != 0 {
		config.Seed = req.Seed
	}
	if req.MissingRate > 0 {
		config.MissingRate = req.MissingRate
	}

	rs := testkit.NewGenerator(config).Generate()
	meta := dataset.New("synthetic", "synthetic.csv", "synthetic", rs)
	s.store.Put(meta, rs)

	s.logger.Info("generated synthetic dataset %s: %d records", meta.ID, meta.RecordCount)
	c.JSON(http.StatusCreated, meta)
}

// handleListDatasets returns metadata for every loaded dataset
func (s *Server) handleListDatasets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"datasets": s.store.List()})
}

// handleGetDataset returns one dataset's metadata
func (s *Server) handleGetDataset(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry.Meta)
}

// handleGetFields returns the field catalog of one dataset
func (s *Server) handleGetFields(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"fields":         entry.Meta.Fields,
		"numeric_fields": entry.Meta.NumericFields(),
	})
}

// handleDeleteDataset removes a dataset from memory and, when persistence is
// enabled, from the metadata store
func (s *Server) handleDeleteDataset(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.Get(id); err != nil {
		s.respondError(c, err)
		return
	}
	s.store.Delete(id)

	if s.repo != nil {
		if err := s.repo.Delete(c.Request.Context(), id); err != nil {
			s.logger.Warn("failed to delete persisted metadata: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
