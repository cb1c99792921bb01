package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/transitoria/internal/allocation"
	"github.com/Veraticus/transitoria/internal/common"
	"github.com/Veraticus/transitoria/internal/filter"
	"github.com/Veraticus/transitoria/internal/importer"
	"github.com/Veraticus/transitoria/internal/model"
)

var errAnalysisDisabled = errors.New("AI analysis is not configured")

// writeError maps domain errors onto HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrTransactionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry):
		status = http.StatusConflict
	case errors.Is(err, common.ErrDisabled):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrClassificationUnavailable), errors.Is(err, errAnalysisDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, common.ErrInvalidPeriodFormat),
		errors.Is(err, common.ErrMalformedRow),
		errors.Is(err, common.ErrUnsupportedFormat),
		errors.Is(err, filter.ErrUnknownPreset),
		errors.Is(err, filter.ErrInvertedRange):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"transactions": len(s.store.Transactions()),
		"time":         s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"settings": s.settings,
		"palette":  s.settings.Theme.Palette(),
		"actor":    actor(c),
	})
}

func (s *Server) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Summary())
}

// criteria reads range, start, end, hideSmall and threshold from the query.
func (s *Server) criteria(c *gin.Context) (filter.Criteria, error) {
	preset, err := filter.ParsePreset(c.Query("range"))
	if err != nil {
		return filter.Criteria{}, err
	}
	cr := filter.Criteria{Preset: preset, HideSmall: s.settings.HideSmallAmounts}

	if v := c.Query("start"); v != "" {
		if cr.Start, err = time.Parse(model.DateLayout, v); err != nil {
			return filter.Criteria{}, errors.New("start must be YYYY-MM-DD")
		}
	}
	if v := c.Query("end"); v != "" {
		if cr.End, err = time.Parse(model.DateLayout, v); err != nil {
			return filter.Criteria{}, errors.New("end must be YYYY-MM-DD")
		}
	}
	if (!cr.Start.IsZero() || !cr.End.IsZero()) && c.Query("range") == "" {
		cr.Preset = filter.PresetCustom
	}
	if v := c.Query("hideSmall"); v != "" {
		if cr.HideSmall, err = strconv.ParseBool(v); err != nil {
			return filter.Criteria{}, errors.New("hideSmall must be a boolean")
		}
	}
	if v := c.Query("threshold"); v != "" {
		if cr.Threshold, err = decimal.NewFromString(v); err != nil {
			return filter.Criteria{}, errors.New("threshold must be a number")
		}
	}
	return cr, nil
}

func (s *Server) filtered(c *gin.Context) ([]model.Transaction, bool) {
	cr, err := s.criteria(c)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	txns, err := filter.Apply(s.store.Transactions(), cr, s.now())
	if err != nil {
		s.writeError(c, err)
		return nil, false
	}
	return txns, true
}

func (s *Server) listTransactions(c *gin.Context) {
	txns, ok := s.filtered(c)
	if !ok {
		return
	}
	out := make([]transactionJSON, 0, len(txns))
	for _, t := range txns {
		out = append(out, s.transactionView(t))
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out, "count": len(out)})
}

func (s *Server) importFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "no file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	f, err := importer.DetectFormat(header.Filename)
	if err != nil {
		s.writeError(c, err)
		return
	}
	txns, err := importer.Parse(f, file)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.commit(c, txns, c.PostForm("mode"))
}

func (s *Server) importPasted(c *gin.Context) {
	var req pasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "text is required")
		return
	}
	txns, err := importer.ParsePasted(req.Text)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.commit(c, txns, c.Query("mode"))
}

// commit appends or replaces depending on mode.
func (s *Server) commit(c *gin.Context, txns []model.Transaction, mode string) {
	var err error
	switch strings.ToLower(mode) {
	case "", "append":
		mode = "append"
		err = s.store.Import(c.Request.Context(), txns)
	case "replace":
		err = s.store.Replace(c.Request.Context(), txns)
	default:
		badRequest(c, "mode must be append or replace")
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, importResponse{Imported: len(txns), Mode: mode})
}

func (s *Server) loadDemo(c *gin.Context) {
	if !s.settings.ShowDemo {
		s.writeError(c, fmt.Errorf("demo data: %w", common.ErrDisabled))
		return
	}
	txns := importer.DemoTransactions()
	if err := s.store.Replace(c.Request.Context(), txns); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, importResponse{Imported: len(txns), Mode: "replace"})
}

// startAnalysis runs in the background unless wait=true.
func (s *Server) startAnalysis(c *gin.Context) {
	if !s.settings.ShowAIAnalysis {
		s.writeError(c, fmt.Errorf("AI analysis: %w", common.ErrDisabled))
		return
	}
	if s.engine == nil {
		s.writeError(c, errAnalysisDisabled)
		return
	}
	if wait, _ := strconv.ParseBool(c.Query("wait")); wait {
		c.JSON(http.StatusOK, s.engine.Analyze(c.Request.Context()))
		return
	}
	s.engine.Start(context.WithoutCancel(s.baseCtx))
	c.JSON(http.StatusAccepted, s.engine.Status())
}

func (s *Server) analysisStatus(c *gin.Context) {
	if s.engine == nil {
		s.writeError(c, errAnalysisDisabled)
		return
	}
	c.JSON(http.StatusOK, s.engine.Status())
}

func (s *Server) approve(c *gin.Context) {
	entry, err := s.store.Approve(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) correct(c *gin.Context) {
	entry, err := s.store.Correct(c.Request.Context(), c.Param("id"), actor(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) setComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid comment body")
		return
	}
	id := c.Param("id")
	if err := s.store.SetComment(c.Request.Context(), id, req.Comment); err != nil {
		s.writeError(c, err)
		return
	}
	t, err := s.store.Get(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.transactionView(t))
}

func (s *Server) timeShift(c *gin.Context) {
	year := s.now().Year()
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			badRequest(c, "year must be a positive integer")
			return
		}
		year = y
	}

	opts := allocation.DefaultOptions()
	policy := strings.ToLower(c.DefaultQuery("policy", "fallback"))
	switch policy {
	case "fallback":
	case "exclude":
		opts.Policy = allocation.ExcludeFromAllocation
	default:
		badRequest(c, "policy must be fallback or exclude")
		return
	}

	txns, ok := s.filtered(c)
	if !ok {
		return
	}
	series, issues := allocation.Aggregate(txns, allocation.NewHorizon(year), opts)
	c.JSON(http.StatusOK, seriesView(year, policy, series, issues))
}

func (s *Server) completeness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"issues": s.store.CompletenessIssues()})
}

func (s *Server) auditLog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.store.AuditLog()})
}
