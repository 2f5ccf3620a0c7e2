package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// candidateEmailIndex уникальный индекс по lower(email) из миграции
const candidateEmailIndex = "candidates_email_lower_idx"

const candidateColumns = `id, full_name, email, phone, timezone, experience, motivation,
	additional_notes, selected_slots, created_at`

type CandidateRepository struct {
	*base.Repository
}

func NewCandidateRepository(db base.DBTX) *CandidateRepository {
	return &CandidateRepository{Repository: base.NewRepository(db)}
}

// Insert создаёт нового кандидата
func (r *CandidateRepository) Insert(ctx context.Context, c *model.Candidate) error {
	query := `
		INSERT INTO candidates (id, full_name, email, phone, timezone, experience, motivation,
			additional_notes, selected_slots, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.ExecAffected(
		ctx, query,
		c.ID,
		c.FullName,
		c.Email,
		c.Phone,
		c.Timezone,
		c.Experience,
		c.Motivation,
		c.AdditionalNotes,
		c.SelectedSlots,
		c.CreatedAt,
	)
	return insertError(err)
}

// insertError переводит нарушение индекса email в ErrDuplicateEmail,
// остальные конфликты (например по id) остаются ошибками хранилища
func insertError(err error) error {
	if err == nil {
		return nil
	}
	if base.IsUniqueViolation(err, candidateEmailIndex) {
		return model.ErrDuplicateEmail
	}
	return fmt.Errorf("insert candidate: %w", err)
}

// FindByEmail получает кандидата по email без учёта регистра
func (r *CandidateRepository) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE lower(email) = $1`

	c, err := scanCandidate(r.QueryRow(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Кандидат не найден
		}
		return nil, fmt.Errorf("get candidate by email: %w", err)
	}

	return c, nil
}

// FindByID получает кандидата по ID
func (r *CandidateRepository) FindByID(ctx context.Context, id string) (*model.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`

	c, err := scanCandidate(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate by id: %w", err)
	}

	return c, nil
}

// ListAll получает всех кандидатов в порядке подачи заявок
func (r *CandidateRepository) ListAll(ctx context.Context) ([]*model.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates ORDER BY seq`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*model.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

func scanCandidate(row pgx.Row) (*model.Candidate, error) {
	var c model.Candidate
	err := row.Scan(
		&c.ID,
		&c.FullName,
		&c.Email,
		&c.Phone,
		&c.Timezone,
		&c.Experience,
		&c.Motivation,
		&c.AdditionalNotes,
		&c.SelectedSlots,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
