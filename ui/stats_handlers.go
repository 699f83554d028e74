package ui

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"chartlab/adapters/stats"
	"chartlab/domain/table"
	"chartlab/internal/errors"
)

// statTestRequest selects the variables for a hypothesis test. Two-variable
// tests (chi-square, correlations, paired tests) use FieldX/FieldY;
// group-comparison tests use Value/Group.
type statTestRequest struct {
	Value  string `json:"value_field"`
	Group  string `json:"group_field"`
	FieldX string `json:"field_x"`
	FieldY string `json:"field_y"`
}

// handleStatTest routes one hypothesis test by name
func (s *Server) handleStatTest(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req statTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("invalid test request body"))
		return
	}

	result, err := s.runTest(c.Param("test"), entry.Records, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) runTest(test string, rs *table.RecordSet, req statTestRequest) (*stats.TestResult, error) {
	switch test {
	case "ttest":
		return s.runner.TTest(rs, req.Value, req.Group)
	case "anova":
		return s.runner.ANOVA(rs, req.Value, req.Group)
	case "pairedttest":
		return s.runner.PairedTTest(rs, req.FieldX, req.FieldY)
	case "mannwhitney":
		return s.runner.MannWhitney(rs, req.Value, req.Group)
	case "wilcoxon":
		return s.runner.WilcoxonSignedRank(rs, req.FieldX, req.FieldY)
	case "kruskal":
		return s.runner.KruskalWallis(rs, req.Value, req.Group)
	case "chisquare":
		return s.runner.ChiSquare(rs, req.FieldX, req.FieldY)
	case "pearson":
		return s.runner.Pearson(rs, req.FieldX, req.FieldY)
	case "spearman":
		return s.runner.Spearman(rs, req.FieldX, req.FieldY)
	case "kendall":
		return s.runner.Kendall(rs, req.FieldX, req.FieldY)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown test %q", test))
	}
}

// regressionRequest selects the model variables for an OLS fit
type regressionRequest struct {
	Dependent  string   `json:"dependent"`
	Predictors []string `json:"predictors"`
}

// handleRegression fits a linear regression on the dataset
func (s *Server) handleRegression(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req regressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("invalid regression request body"))
		return
	}

	result, err := s.runner.LinearRegression(entry.Records, req.Dependent, req.Predictors)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleLogisticRegression fits a binary logistic regression on the dataset
func (s *Server) handleLogisticRegression(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	var req regressionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("invalid regression request body"))
		return
	}

	result, err := s.runner.LogisticRegression(entry.Records, req.Dependent, req.Predictors)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleSummary profiles every field of the dataset
func (s *Server) handleSummary(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        c.Param("id"),
		"summaries": s.runner.SummarizeAll(entry.Records),
	})
}

// handleFieldSummary profiles a single field of the dataset
func (s *Server) handleFieldSummary(c *gin.Context) {
	entry, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	summary, err := s.runner.Summarize(entry.Records, c.Param("field"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
