package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
)

// Snapshot полное содержимое хранилища, формат файла данных
type Snapshot struct {
	TimeSlots  []*model.TimeSlot  `json:"timeSlots"`
	Candidates []*model.Candidate `json:"candidates"`
}

// Persister сохраняет новое состояние до того как оно станет видимым
type Persister interface {
	Save(snap *Snapshot) error
}

// Store хранилище в памяти.
// Одна блокировка на обе таблицы: транзакция меняет приватную копию
// и подменяет состояние целиком, читатели видят только закоммиченное
type Store struct {
	mu        sync.RWMutex
	st        *state
	persister Persister
}

var _ repository.Store = (*Store)(nil)

// New создаёт пустое хранилище без сохранения на диск
func New() *Store {
	return &Store{st: newState()}
}

// NewFromSnapshot создаёт хранилище из снимка. persister может быть nil
func NewFromSnapshot(snap *Snapshot, persister Persister) (*Store, error) {
	st, err := fromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &Store{st: st, persister: persister}, nil
}

func (s *Store) Slots() repository.SlotStore { return slotView{s: s} }

func (s *Store) Candidates() repository.CandidateStore { return candidateView{s: s} }

// InTx выполняет fn под эксклюзивной блокировкой
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tables{st: work}); err != nil {
		return err
	}

	if s.persister != nil {
		if err := s.persister.Save(work.snapshot()); err != nil {
			return fmt.Errorf("persist snapshot: %w", err)
		}
	}

	s.st = work
	return nil
}

// Snapshot возвращает копию текущего состояния
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.snapshot()
}

func (s *Store) Close() error {
	return nil
}

// read выполняет fn над закоммиченным состоянием под блокировкой чтения
func (s *Store) read(ctx context.Context, fn func(st *state)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.st)
	return nil
}

type tables struct {
	st *state
}

func (t *tables) Slots() repository.SlotStore { return txSlots{st: t.st} }

func (t *tables) Candidates() repository.CandidateStore { return txCandidates{st: t.st} }

// txSlots и txCandidates работают с рабочей копией внутри InTx

type txSlots struct{ st *state }

func (t txSlots) ListAll(ctx context.Context) ([]*model.TimeSlot, error) {
	return t.st.listSlots(false), nil
}

func (t txSlots) ListAvailable(ctx context.Context) ([]*model.TimeSlot, error) {
	return t.st.listSlots(true), nil
}

func (t txSlots) GetByIDs(ctx context.Context, ids []string) ([]*model.TimeSlot, error) {
	return t.st.getSlots(ids), nil
}

func (t txSlots) MarkTaken(ctx context.Context, ids []string, candidateID string, at time.Time) error {
	return t.st.markTaken(ids, candidateID, at)
}

func (t txSlots) Create(ctx context.Context, slots []*model.TimeSlot) (int, error) {
	return t.st.createSlots(slots), nil
}

type txCandidates struct{ st *state }

func (t txCandidates) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	return t.st.findByEmail(email), nil
}

func (t txCandidates) FindByID(ctx context.Context, id string) (*model.Candidate, error) {
	return t.st.findByID(id), nil
}

func (t txCandidates) Insert(ctx context.Context, c *model.Candidate) error {
	return t.st.insert(c)
}

func (t txCandidates) ListAll(ctx context.Context) ([]*model.Candidate, error) {
	return t.st.listCandidates(), nil
}

// slotView и candidateView доступ вне транзакции: чтение под RLock,
// каждая запись это отдельная транзакция

type slotView struct{ s *Store }

func (v slotView) ListAll(ctx context.Context) (out []*model.TimeSlot, err error) {
	err = v.s.read(ctx, func(st *state) { out = st.listSlots(false) })
	return out, err
}

func (v slotView) ListAvailable(ctx context.Context) (out []*model.TimeSlot, err error) {
	err = v.s.read(ctx, func(st *state) { out = st.listSlots(true) })
	return out, err
}

func (v slotView) GetByIDs(ctx context.Context, ids []string) (out []*model.TimeSlot, err error) {
	err = v.s.read(ctx, func(st *state) { out = st.getSlots(ids) })
	return out, err
}

func (v slotView) MarkTaken(ctx context.Context, ids []string, candidateID string, at time.Time) error {
	return v.s.InTx(ctx, func(tx repository.Tables) error {
		return tx.Slots().MarkTaken(ctx, ids, candidateID, at)
	})
}

func (v slotView) Create(ctx context.Context, slots []*model.TimeSlot) (created int, err error) {
	err = v.s.InTx(ctx, func(tx repository.Tables) error {
		created, err = tx.Slots().Create(ctx, slots)
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

type candidateView struct{ s *Store }

func (v candidateView) FindByEmail(ctx context.Context, email string) (out *model.Candidate, err error) {
	err = v.s.read(ctx, func(st *state) { out = st.findByEmail(email) })
	return out, err
}

func (v candidateView) FindByID(ctx context.Context, id string) (out *model.Candidate, err error) {
	err = v.s.read(ctx, func(st *state) { out = st.findByID(id) })
	return out, err
}

func (v candidateView) Insert(ctx context.Context, c *model.Candidate) error {
	return v.s.InTx(ctx, func(tx repository.Tables) error {
		return tx.Candidates().Insert(ctx, c)
	})
}

func (v candidateView) ListAll(ctx context.Context) (out []*model.Candidate, err error) {
	err = v.s.read(ctx, func(st *state) { out = st.listCandidates() })
	return out, err
}
