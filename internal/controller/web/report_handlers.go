package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/interview_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GET /api/reports/summary
func (h *Handlers) ReportSummary(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.reports.Stats(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	zones, err := h.candidates.Timezones(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if zones == nil {
		zones = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":     stats,
		"timezones": zones,
	})
}

// GET /api/reports/candidates.csv?search=&timezone=&since=
func (h *Handlers) ExportCandidatesCSV(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	candidates, err := h.candidates.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := formatting.WriteCandidatesCSV(&buf, candidates, h.reportLoc); err != nil {
		h.respondError(c, model.NewStorageError("export csv", err))
		return
	}

	h.logger.Debug("Candidates exported", zap.Int("count", len(candidates)))

	filename := formatting.ReportFileName(h.now().In(h.reportLoc))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
