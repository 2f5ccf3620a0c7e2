package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /api/time-slots
func (h *Handlers) ListAvailableSlots(c *gin.Context) {
	availability, err := h.slots.Availability(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

// GET /api/time-slots/all
func (h *Handlers) ListAllSlots(c *gin.Context) {
	slots, err := h.slots.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeSlots": slots})
}

// GET /api/slots/availability
func (h *Handlers) BookedSlots(c *gin.Context) {
	ids, err := h.slots.BookedSlotIDs(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"bookedSlots": ids,
		"totalBooked": len(ids),
	})
}
