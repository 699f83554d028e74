package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chartlab/domain/chart"
	"chartlab/internal/errors"
	"chartlab/internal/pipeline"
)

// handleChart computes one chart series for a dataset
func (s *Server) handleChart(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req chart.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("invalid chart request body"))
		return
	}

	series, err := pipeline.Dispatch(entry.Records, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// batchChartRequest is a set of independent chart requests computed together
type batchChartRequest struct {
	Requests []chart.Request `json:"requests"`
}

// batchChartItem is one slot of a batch response. Failed slots carry an error
// message instead of a series; one bad request never sinks the batch.
type batchChartItem struct {
	Series *chart.Series `json:"series,omitempty"`
	Error  string        `json:"error,omitempty"`
	Code   string        `json:"code,omitempty"`
}

// handleChartBatch computes several chart series concurrently, bounded by the
// computer's semaphore. Results come back in request order.
func (s *Server) handleChartBatch(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req batchChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("invalid batch request body"))
		return
	}
	if len(req.Requests) == 0 {
		s.respondError(c, errors.InvalidInput("batch needs at least one request"))
		return
	}

	results := s.computer.ComputeAll(c.Request.Context(), entry.Records, req.Requests)
	items := make([]batchChartItem, len(results))
	for i, r := range results {
		if r.Err != nil {
			items[i] = batchChartItem{Error: r.Err.Error(), Code: errors.GetCode(r.Err)}
			continue
		}
		items[i] = batchChartItem{Series: r.Series}
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}
