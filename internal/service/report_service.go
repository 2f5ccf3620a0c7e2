package service

import (
	"context"
	"math"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	"go.uber.org/zap"
)

type ReportService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewReportService(store repository.Store, logger *zap.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: logger,
	}
}

// Stats сводка по кандидатам и слотам для страницы отчёта
func (s *ReportService) Stats(ctx context.Context) (*model.ReportStats, error) {
	candidates, err := s.store.Candidates().ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list candidates for report", zap.Error(err))
		return nil, model.NewStorageError("report candidates", err)
	}

	slots, err := s.store.Slots().ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list slots for report", zap.Error(err))
		return nil, model.NewStorageError("report slots", err)
	}

	return buildStats(candidates, slots), nil
}

func buildStats(candidates []*model.Candidate, slots []*model.TimeSlot) *model.ReportStats {
	stats := &model.ReportStats{
		TotalCandidates: len(candidates),
		TotalSlots:      len(slots),
	}

	for _, c := range candidates {
		stats.TotalSlotsBooked += len(c.SelectedSlots)
	}
	for _, slot := range slots {
		if slot.IsFree() {
			stats.AvailableSlots++
		}
	}

	if stats.TotalSlots > 0 {
		rate := float64(stats.TotalSlotsBooked) / float64(stats.TotalSlots) * 100
		stats.BookingRate = int(math.Round(rate))
	}

	return stats
}
