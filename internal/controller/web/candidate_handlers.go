package web

import (
	"net/http"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/service"
	"github.com/gin-gonic/gin"
)

// POST /api/candidates
func (h *Handlers) CreateCandidate(c *gin.Context) {
	var form service.SubmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"code":      model.KindValidationFailed,
			"requestId": RequestIDFrom(c),
		})
		return
	}

	reservation, err := h.reservations.Submit(c.Request.Context(), &form)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Candidate created successfully",
		"candidateId": reservation.CandidateID,
		"bookedSlots": reservation.BookedCount,
	})
}

// GET /api/candidates?search=&timezone=&since=today|week|month
func (h *Handlers) ListCandidates(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	candidates, err := h.candidates.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidates)
}

// GET /api/candidates/:id
func (h *Handlers) GetCandidate(c *gin.Context) {
	candidate, err := h.candidates.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, candidate)
}

// bindFilter разбирает параметры фильтра, при ошибке отвечает 400
func (h *Handlers) bindFilter(c *gin.Context) (model.CandidateFilter, bool) {
	since, ok := model.ParsePeriod(c.Query("since"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "since must be one of all, today, week, month",
			"code":      model.KindValidationFailed,
			"requestId": RequestIDFrom(c),
		})
		return model.CandidateFilter{}, false
	}

	return model.CandidateFilter{
		Search:   c.Query("search"),
		Timezone: c.Query("timezone"),
		Since:    since,
	}, true
}
