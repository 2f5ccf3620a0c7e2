package web

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// respondError переводит ошибку сервиса в HTTP-ответ.
// Сбои хранилища логируются полностью, клиент видит общее сообщение
func (h *Handlers) respondError(c *gin.Context, err error) {
	kind := model.KindOf(err)
	body := gin.H{
		"code":      kind,
		"requestId": RequestIDFrom(c),
	}

	status := http.StatusInternalServerError
	switch kind {
	case model.KindValidationFailed:
		status = http.StatusBadRequest
		body["error"] = "Please fill in all required fields and select at least one time slot"
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			body["fields"] = vErr.Fields
		}
	case model.KindInvalidEmail:
		status = http.StatusBadRequest
		body["error"] = "Invalid email format"
	case model.KindDuplicateEmail:
		status = http.StatusConflict
		body["error"] = "A candidate with this email already exists"
	case model.KindSlotsUnavailable:
		status = http.StatusConflict
		body["error"] = "Some selected time slots are no longer available"
		var sErr *model.SlotsUnavailableError
		if errors.As(err, &sErr) {
			body["unavailableSlots"] = sErr.IDs
		}
	case model.KindSlotNotFound:
		status = http.StatusNotFound
		body["error"] = "Time slot not found"
		var nErr *model.SlotNotFoundError
		if errors.As(err, &nErr) {
			body["slotId"] = nErr.ID
		}
	case model.KindCandidateNotFound:
		status = http.StatusNotFound
		body["error"] = "Candidate not found"
	default:
		h.logger.Error("Request failed",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		body["error"] = internalErrorMessage
	}

	c.JSON(status, body)
}
