package service

import (
	"context"
	"sort"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	"go.uber.org/zap"
)

type CandidateService struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewCandidateService(store repository.Store, logger *zap.Logger) *CandidateService {
	return &CandidateService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// List получает кандидатов в порядке подачи заявок с учётом фильтра
func (s *CandidateService) List(ctx context.Context, filter model.CandidateFilter) ([]*model.Candidate, error) {
	candidates, err := s.store.Candidates().ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list candidates", zap.Error(err))
		return nil, model.NewStorageError("list candidates", err)
	}

	now := s.now()
	out := make([]*model.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if filter.Match(c, now) {
			out = append(out, c)
		}
	}
	return out, nil
}

// GetByID получает кандидата, model.ErrCandidateNotFound если его нет
func (s *CandidateService) GetByID(ctx context.Context, id string) (*model.Candidate, error) {
	c, err := s.store.Candidates().FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get candidate", zap.String("candidate_id", id), zap.Error(err))
		return nil, model.NewStorageError("get candidate", err)
	}
	if c == nil {
		return nil, model.ErrCandidateNotFound
	}
	return c, nil
}

// Timezones отсортированный список часовых поясов кандидатов
func (s *CandidateService) Timezones(ctx context.Context) ([]string, error) {
	candidates, err := s.List(ctx, model.CandidateFilter{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var zones []string
	for _, c := range candidates {
		if _, ok := seen[c.Timezone]; ok {
			continue
		}
		seen[c.Timezone] = struct{}{}
		zones = append(zones, c.Timezone)
	}
	sort.Strings(zones)
	return zones, nil
}
