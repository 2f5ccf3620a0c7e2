package handlers

import (
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	slotService      *service.SlotService
	candidateService *service.CandidateService
	reportService    *service.ReportService
	staffChats       map[int64]struct{}
	location         *time.Location
	logger           *zap.Logger
	now              func() time.Time
}

// NewHandlers создаёт новый обработчик команд.
// Отвечаем только чатам сотрудников из staffChatIDs,
// location задаёт "сегодня" для недельного календаря
func NewHandlers(
	slotService *service.SlotService,
	candidateService *service.CandidateService,
	reportService *service.ReportService,
	staffChatIDs []int64,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.UTC
	}

	staff := make(map[int64]struct{}, len(staffChatIDs))
	for _, id := range staffChatIDs {
		staff[id] = struct{}{}
	}

	return &Handlers{
		slotService:      slotService,
		candidateService: candidateService,
		reportService:    reportService,
		staffChats:       staff,
		location:         location,
		logger:           logger,
		now:              time.Now,
	}
}
