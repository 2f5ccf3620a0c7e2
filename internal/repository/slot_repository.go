package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, slot_date, slot_time, day, taken, taken_by, taken_at`

const lockSlotsQuery = `SELECT id, taken FROM time_slots WHERE id = ANY($1) ORDER BY id FOR UPDATE`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DBTX) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db)}
}

// ListAll получает все слоты в порядке добавления
func (r *SlotRepository) ListAll(ctx context.Context) ([]*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots ORDER BY position`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return scanSlots(rows)
}

// ListAvailable получает свободные слоты
func (r *SlotRepository) ListAvailable(ctx context.Context) ([]*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE taken = false ORDER BY position`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return scanSlots(rows)
}

// GetByIDs получает слоты по списку id в порядке запроса
func (r *SlotRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = ANY($1)`

	rows, err := r.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get slots by ids: %w", err)
	}

	found, err := scanSlots(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.TimeSlot, len(found))
	for _, slot := range found {
		byID[slot.ID] = slot
	}

	slots := make([]*model.TimeSlot, 0, len(found))
	for _, id := range UniqueIDs(ids) {
		if slot, ok := byID[id]; ok {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// MarkTaken бронирует слоты за кандидатом.
// Строки блокируются FOR UPDATE в порядке id, поэтому параллельная транзакция
// ждёт без взаимной блокировки и после нашего коммита увидит слоты занятыми
func (r *SlotRepository) MarkTaken(ctx context.Context, ids []string, candidateID string, at time.Time) error {
	ids = UniqueIDs(ids)

	return pgx.BeginFunc(ctx, r.DB(), func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, lockSlotsQuery, ids)
		if err != nil {
			return fmt.Errorf("lock slots: %w", err)
		}

		state := make(map[string]bool, len(ids))
		for rows.Next() {
			var (
				id    string
				taken bool
			)
			if err := rows.Scan(&id, &taken); err != nil {
				rows.Close()
				return fmt.Errorf("scan slot lock: %w", err)
			}
			state[id] = taken
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("lock slots: %w", err)
		}

		if err := checkFree(ids, state); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE time_slots
			SET taken = true, taken_by = $1, taken_at = $2
			WHERE id = ANY($3) AND taken = false
		`, candidateID, at, ids)
		if err != nil {
			return fmt.Errorf("mark slots taken: %w", err)
		}

		if tag.RowsAffected() != int64(len(ids)) {
			return &model.SlotsUnavailableError{IDs: ids}
		}
		return nil
	})
}

// Create добавляет слоты, существующие id пропускаются
func (r *SlotRepository) Create(ctx context.Context, slots []*model.TimeSlot) (int, error) {
	query := `
		INSERT INTO time_slots (id, slot_date, slot_time, day)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`

	created := 0
	err := pgx.BeginFunc(ctx, r.DB(), func(tx pgx.Tx) error {
		for _, slot := range slots {
			tag, err := tx.Exec(ctx, query, slot.ID, slot.Date, slot.Time, slot.Day)
			if err != nil {
				return fmt.Errorf("create slot %s: %w", slot.ID, err)
			}
			created += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return created, nil
}

// checkFree проверяет что все id существуют и свободны
func checkFree(ids []string, taken map[string]bool) error {
	var busy []string
	for _, id := range ids {
		t, ok := taken[id]
		if !ok {
			return &model.SlotNotFoundError{ID: id}
		}
		if t {
			busy = append(busy, id)
		}
	}
	if len(busy) > 0 {
		return &model.SlotsUnavailableError{IDs: busy}
	}
	return nil
}

func scanSlots(rows pgx.Rows) ([]*model.TimeSlot, error) {
	defer rows.Close()

	var slots []*model.TimeSlot
	for rows.Next() {
		var slot model.TimeSlot
		err := rows.Scan(
			&slot.ID,
			&slot.Date,
			&slot.Time,
			&slot.Day,
			&slot.Taken,
			&slot.TakenBy,
			&slot.TakenAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}
