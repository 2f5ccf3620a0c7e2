package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore хранилище поверх PostgreSQL.
// Пул закрывает тот, кто его создал
type PostgresStore struct {
	pool       *pgxpool.Pool
	slots      *SlotRepository
	candidates *CandidateRepository
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:       pool,
		slots:      NewSlotRepository(pool),
		candidates: NewCandidateRepository(pool),
	}
}

func (s *PostgresStore) Slots() SlotStore { return s.slots }

func (s *PostgresStore) Candidates() CandidateStore { return s.candidates }

// InTx выполняет fn в одной транзакции; репозитории внутри работают через tx
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Tables) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&txTables{
		slots:      NewSlotRepository(tx),
		candidates: NewCandidateRepository(tx),
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return nil
}

type txTables struct {
	slots      *SlotRepository
	candidates *CandidateRepository
}

func (t *txTables) Slots() SlotStore { return t.slots }

func (t *txTables) Candidates() CandidateStore { return t.candidates }
