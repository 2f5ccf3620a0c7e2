package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

type SlotService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewSlotService(store repository.Store, logger *zap.Logger) *SlotService {
	return &SlotService{
		store:  store,
		logger: logger,
	}
}

// SlotAvailability ответ на запрос свободных слотов
type SlotAvailability struct {
	AvailableSlots []*model.TimeSlot `json:"availableSlots"`
	TotalAvailable int               `json:"totalAvailable"`
	TotalSlots     int               `json:"totalSlots"`
}

// ListAvailable получает свободные слоты.
// Читается без критической секции: Submit всё равно перепроверяет
func (s *SlotService) ListAvailable(ctx context.Context) ([]*model.TimeSlot, error) {
	slots, err := s.store.Slots().ListAvailable(ctx)
	if err != nil {
		return nil, s.storageError("list available slots", err)
	}
	return slots, nil
}

// ListAll получает все слоты
func (s *SlotService) ListAll(ctx context.Context) ([]*model.TimeSlot, error) {
	slots, err := s.store.Slots().ListAll(ctx)
	if err != nil {
		return nil, s.storageError("list slots", err)
	}
	return slots, nil
}

// Availability свободные слоты вместе с общими счётчиками
func (s *SlotService) Availability(ctx context.Context) (*SlotAvailability, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*model.TimeSlot, 0, len(all))
	for _, slot := range all {
		if slot.IsFree() {
			available = append(available, slot)
		}
	}

	return &SlotAvailability{
		AvailableSlots: available,
		TotalAvailable: len(available),
		TotalSlots:     len(all),
	}, nil
}

// BookedSlotIDs id слотов, выбранных кандидатами
func (s *SlotService) BookedSlotIDs(ctx context.Context) ([]string, error) {
	candidates, err := s.store.Candidates().ListAll(ctx)
	if err != nil {
		return nil, s.storageError("list candidates", err)
	}

	var ids []string
	for _, c := range candidates {
		ids = append(ids, c.SelectedSlots...)
	}
	return repository.UniqueIDs(ids), nil
}

// SeedPlan описание слотов для начального заполнения
type SeedPlan struct {
	From     time.Time
	Days     int
	Weekdays []time.Weekday // пусто = все дни
	Times    []string       // "HH:mm"
	Location *time.Location
}

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (p SeedPlan) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.From, validation.Required),
		validation.Field(&p.Days, validation.Required, validation.Min(1), validation.Max(366)),
		validation.Field(&p.Times, validation.Required, validation.Each(validation.Match(clockPattern))),
	)
}

// Slots разворачивает план в список слотов
func (p SeedPlan) Slots() []*model.TimeSlot {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	allowed := make(map[time.Weekday]bool, len(p.Weekdays))
	for _, wd := range p.Weekdays {
		allowed[wd] = true
	}

	start := time.Date(p.From.Year(), p.From.Month(), p.From.Day(), 0, 0, 0, 0, loc)

	var slots []*model.TimeSlot
	for i := 0; i < p.Days; i++ {
		date := start.AddDate(0, 0, i)
		if len(allowed) > 0 && !allowed[date.Weekday()] {
			continue
		}

		for _, clock := range p.Times {
			// формат уже проверен в Validate
			hm, _ := time.Parse("15:04", clock)
			slotStart := time.Date(date.Year(), date.Month(), date.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
			slots = append(slots, model.NewTimeSlot(slotStart))
		}
	}
	return slots
}

// Seed создаёт слоты по плану, существующие пропускаются
func (s *SlotService) Seed(ctx context.Context, plan SeedPlan) (int, error) {
	if err := plan.Validate(); err != nil {
		return 0, fmt.Errorf("invalid seed plan: %w", err)
	}

	slots := plan.Slots()
	created, err := s.store.Slots().Create(ctx, slots)
	if err != nil {
		return 0, s.storageError("create slots", err)
	}

	s.logger.Info("Slots seeded",
		zap.Int("planned", len(slots)),
		zap.Int("created", created),
	)

	return created, nil
}

func (s *SlotService) storageError(op string, err error) error {
	s.logger.Error("Storage failure", zap.String("op", op), zap.Error(err))
	return model.NewStorageError(op, err)
}
