package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingNotifier получает успешные бронирования после коммита.
// Вызов не должен блокироваться надолго и не влияет на результат заявки
type BookingNotifier interface {
	NotifyBooked(ctx context.Context, reservation *model.Reservation)
}

// ReservationService единственная точка, где создаётся кандидат и
// бронируются его слоты
type ReservationService struct {
	store    repository.Store
	notifier BookingNotifier
	logger   *zap.Logger

	// mu сериализует критическую секцию внутри процесса,
	// транзакция хранилища защищает от других процессов
	mu sync.Mutex

	newID func() (string, error)
	now   func() time.Time
}

type ReservationOption func(*ReservationService)

// WithNotifier подключает уведомления о новых бронированиях
func WithNotifier(n BookingNotifier) ReservationOption {
	return func(s *ReservationService) { s.notifier = n }
}

// WithIDGenerator заменяет генератор id кандидатов
func WithIDGenerator(fn func() (string, error)) ReservationOption {
	return func(s *ReservationService) { s.newID = fn }
}

// WithClock заменяет источник времени
func WithClock(fn func() time.Time) ReservationOption {
	return func(s *ReservationService) { s.now = fn }
}

func NewReservationService(store repository.Store, logger *zap.Logger, opts ...ReservationOption) *ReservationService {
	s := &ReservationService{
		store:  store,
		logger: logger,
		newID:  newCandidateID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newCandidateID UUIDv7: упорядочен по времени создания и уникален
// даже при одновременных заявках в одну миллисекунду
func newCandidateID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Submit проверяет заявку и атомарно создаёт кандидата с его слотами.
// Форма вызывающего не изменяется
func (s *ReservationService) Submit(ctx context.Context, input *SubmissionForm) (*model.Reservation, error) {
	form := input.Normalized()

	if err := form.Validate(); err != nil {
		s.logRejected(form, err)
		return nil, err
	}

	// Быстрая проверка до критической секции, Insert проверит ещё раз
	existing, err := s.store.Candidates().FindByEmail(ctx, form.Email)
	if err != nil {
		return nil, s.storageError("find candidate by email", err)
	}
	if existing != nil {
		s.logRejected(form, model.ErrDuplicateEmail)
		return nil, model.ErrDuplicateEmail
	}

	id, err := s.newID()
	if err != nil {
		return nil, s.storageError("allocate candidate id", err)
	}

	now := s.now().UTC()
	candidate := form.toCandidate(id, now)

	slots, err := s.commit(ctx, candidate, now)
	if err != nil {
		if model.IsDomainError(err) {
			s.logRejected(form, err)
			return nil, err
		}
		return nil, s.storageError("commit submission", err)
	}

	reservation := &model.Reservation{
		CandidateID: candidate.ID,
		BookedCount: len(candidate.SelectedSlots),
		Candidate:   candidate,
		Slots:       slots,
	}

	s.logger.Info("Candidate submitted",
		zap.String("candidate_id", candidate.ID),
		zap.String("timezone", candidate.Timezone),
		zap.Strings("slot_ids", candidate.SelectedSlots),
	)

	if s.notifier != nil {
		s.notifier.NotifyBooked(ctx, reservation)
	}

	return reservation, nil
}

// commit критическая секция: повторная проверка слотов, создание кандидата
// и бронирование в одной транзакции
func (s *ReservationService) commit(ctx context.Context, candidate *model.Candidate, now time.Time) ([]*model.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var booked []*model.TimeSlot
	err := s.store.InTx(ctx, func(tx repository.Tables) error {
		found, err := tx.Slots().GetByIDs(ctx, candidate.SelectedSlots)
		if err != nil {
			return fmt.Errorf("get slots: %w", err)
		}

		if err := checkAvailable(candidate.SelectedSlots, found); err != nil {
			return err
		}

		if err := tx.Candidates().Insert(ctx, candidate); err != nil {
			return err
		}

		if err := tx.Slots().MarkTaken(ctx, candidate.SelectedSlots, candidate.ID, now); err != nil {
			return err
		}

		booked, err = tx.Slots().GetByIDs(ctx, candidate.SelectedSlots)
		if err != nil {
			return fmt.Errorf("reload slots: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return booked, nil
}

// checkAvailable собирает в порядке заявки все слоты, которые сейчас
// нельзя занять: несуществующие и уже занятые
func checkAvailable(ids []string, found []*model.TimeSlot) error {
	byID := make(map[string]*model.TimeSlot, len(found))
	for _, slot := range found {
		byID[slot.ID] = slot
	}

	var unavailable []string
	for _, id := range ids {
		if slot, ok := byID[id]; !ok || !slot.IsFree() {
			unavailable = append(unavailable, id)
		}
	}

	if len(unavailable) > 0 {
		return &model.SlotsUnavailableError{IDs: unavailable}
	}
	return nil
}

func (s *ReservationService) storageError(op string, err error) error {
	s.logger.Error("Storage failure", zap.String("op", op), zap.Error(err))
	return model.NewStorageError(op, err)
}

func (s *ReservationService) logRejected(form *SubmissionForm, err error) {
	s.logger.Info("Submission rejected",
		zap.String("kind", string(model.KindOf(err))),
		zap.Strings("slot_ids", form.SelectedSlots),
		zap.Error(err),
	)
}
