package repository

import (
	"context"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
)

// SlotStore хранилище слотов для собеседований
type SlotStore interface {
	// ListAll возвращает все слоты в порядке хранения
	ListAll(ctx context.Context) ([]*model.TimeSlot, error)
	// ListAvailable возвращает только свободные слоты
	ListAvailable(ctx context.Context) ([]*model.TimeSlot, error)
	// GetByIDs возвращает найденные слоты в порядке ids, отсутствующие пропускаются
	GetByIDs(ctx context.Context, ids []string) ([]*model.TimeSlot, error)
	// MarkTaken занимает все слоты или ни одного.
	// Ошибки: *model.SlotNotFoundError, *model.SlotsUnavailableError
	MarkTaken(ctx context.Context, ids []string, candidateID string, at time.Time) error
	// Create добавляет новые слоты, уже существующие id пропускаются
	Create(ctx context.Context, slots []*model.TimeSlot) (int, error)
}

// CandidateStore хранилище кандидатов
type CandidateStore interface {
	// FindByEmail возвращает nil, nil если кандидата нет
	FindByEmail(ctx context.Context, email string) (*model.Candidate, error)
	// FindByID возвращает nil, nil если кандидата нет
	FindByID(ctx context.Context, id string) (*model.Candidate, error)
	// Insert возвращает model.ErrDuplicateEmail если email уже занят
	Insert(ctx context.Context, candidate *model.Candidate) error
	// ListAll возвращает кандидатов в порядке добавления
	ListAll(ctx context.Context) ([]*model.Candidate, error)
}

// Tables доступ к обеим "таблицам"
type Tables interface {
	Slots() SlotStore
	Candidates() CandidateStore
}

// Store хранилище с транзакциями.
// Всё что записано через Tables внутри InTx становится видимым и
// сохранённым целиком, либо не применяется вовсе
type Store interface {
	Tables
	InTx(ctx context.Context, fn func(tx Tables) error) error
	Close() error
}
