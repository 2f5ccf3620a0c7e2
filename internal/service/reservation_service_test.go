package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	"github.com/Freeeeeet/interview_scheduler/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var slotStart = time.Date(2024, time.March, 18, 10, 0, 0, 0, time.UTC)

// newTestStore хранилище в памяти с n свободными слотами подряд по часу
func newTestStore(t *testing.T, n int) (*memory.Store, []string) {
	t.Helper()

	slots := make([]*model.TimeSlot, n)
	ids := make([]string, n)
	for i := range slots {
		slots[i] = model.NewTimeSlot(slotStart.Add(time.Duration(i) * time.Hour))
		ids[i] = slots[i].ID
	}

	store, err := memory.NewFromSnapshot(&memory.Snapshot{TimeSlots: slots}, nil)
	require.NoError(t, err)
	return store, ids
}

func validForm(email string, slots ...string) *SubmissionForm {
	return &SubmissionForm{
		FullName:      "Ada Lovelace",
		Email:         email,
		Phone:         "+44 20 0000 0000",
		Timezone:      "Europe/London",
		Experience:    "5 years",
		SelectedSlots: slots,
	}
}

type recordingNotifier struct {
	mu     sync.Mutex
	booked []*model.Reservation
}

func (n *recordingNotifier) NotifyBooked(ctx context.Context, r *model.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, r)
}

func TestSubmit_Scenario(t *testing.T) {
	store, ids := newTestStore(t, 2)
	s1, s2 := ids[0], ids[1]
	notifier := &recordingNotifier{}
	svc := NewReservationService(store, zap.NewNop(), WithNotifier(notifier))
	ctx := context.Background()

	// A бронирует S1
	resA, err := svc.Submit(ctx, validForm("a@example.com", s1))
	require.NoError(t, err)
	assert.Equal(t, 1, resA.BookedCount)
	require.Len(t, resA.Slots, 1)
	assert.True(t, resA.Slots[0].Taken)
	assert.Equal(t, resA.CandidateID, *resA.Slots[0].TakenBy)

	// B просит тот же S1
	_, err = svc.Submit(ctx, validForm("b@example.com", s1))
	var unavailable *model.SlotsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{s1}, unavailable.IDs)

	b, err := store.Candidates().FindByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, b, "B must not be created")

	// C с email A просит S2
	_, err = svc.Submit(ctx, validForm("A@Example.com", s2))
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)

	slots, err := store.Slots().GetByIDs(ctx, []string{s2})
	require.NoError(t, err)
	assert.True(t, slots[0].IsFree(), "S2 stays free")

	assert.Len(t, notifier.booked, 1)
}

func TestSubmit_ValidationFailedDoesNotMutate(t *testing.T) {
	store, ids := newTestStore(t, 1)
	svc := NewReservationService(store, zap.NewNop())
	before := store.Snapshot()

	form := validForm("a@example.com", ids[0])
	form.FullName = "   "

	_, err := svc.Submit(context.Background(), form)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "fullName")
	assert.Equal(t, model.KindValidationFailed, model.KindOf(err))

	assert.Equal(t, before, store.Snapshot())
}

func TestSubmit_InvalidEmail(t *testing.T) {
	store, ids := newTestStore(t, 1)
	svc := NewReservationService(store, zap.NewNop())

	_, err := svc.Submit(context.Background(), validForm("not-an-email", ids[0]))
	assert.ErrorIs(t, err, model.ErrInvalidEmail)
}

func TestSubmit_UnknownSlotIsUnavailable(t *testing.T) {
	store, ids := newTestStore(t, 2)
	svc := NewReservationService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Submit(ctx, validForm("a@example.com", ids[0]))
	require.NoError(t, err)

	// занятый и несуществующий слоты перечисляются вместе в порядке заявки
	_, err = svc.Submit(ctx, validForm("b@example.com", ids[0], "2030-01-01-10:00", ids[1]))
	var unavailable *model.SlotsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, []string{ids[0], "2030-01-01-10:00"}, unavailable.IDs)
	assert.Equal(t, model.KindSlotsUnavailable, model.KindOf(err))

	free, err := store.Slots().ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, ids[1], free[0].ID)

	b, err := store.Candidates().FindByEmail(ctx, "b@example.com")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestSubmit_DoesNotModifyCallerForm(t *testing.T) {
	store, ids := newTestStore(t, 2)
	svc := NewReservationService(store, zap.NewNop())

	form := validForm("  a@example.com ", " "+ids[1], ids[0], ids[1])
	form.FullName = "  Ada Lovelace  "

	res, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", res.Candidate.Email)
	assert.Equal(t, "Ada Lovelace", res.Candidate.FullName)

	assert.Equal(t, "  a@example.com ", form.Email)
	assert.Equal(t, "  Ada Lovelace  ", form.FullName)
	assert.Equal(t, []string{" " + ids[1], ids[0], ids[1]}, form.SelectedSlots)
}

func TestSubmit_DuplicateSlotIDsCollapse(t *testing.T) {
	store, ids := newTestStore(t, 2)
	svc := NewReservationService(store, zap.NewNop())

	res, err := svc.Submit(context.Background(), validForm("a@example.com", ids[1], ids[0], ids[1]))
	require.NoError(t, err)
	assert.Equal(t, 2, res.BookedCount)
	assert.Equal(t, []string{ids[1], ids[0]}, res.Candidate.SelectedSlots)
}

func TestSubmit_ConcurrentSameSlot(t *testing.T) {
	const n = 20

	store, ids := newTestStore(t, 1)
	svc := NewReservationService(store, zap.NewNop())
	ctx := context.Background()

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		successes   int
		unavailable int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Submit(ctx, validForm(fmt.Sprintf("c%d@example.com", i), ids[0]))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, model.ErrSlotsUnavailable):
				unavailable++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, unavailable)

	candidates, err := store.Candidates().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1, "losers must leave no candidate record")

	slots, err := store.Slots().ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, candidates[0].ID, *slots[0].TakenBy)
}

func TestSubmit_ConcurrentSameEmail(t *testing.T) {
	const n = 10

	store, ids := newTestStore(t, n)
	svc := NewReservationService(store, zap.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(ctx, validForm("same@example.com", ids[i]))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, model.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, ok)

	free, err := store.Slots().ListAvailable(ctx)
	require.NoError(t, err)
	assert.Len(t, free, n-1)
}

func TestSubmit_UniqueIDsUnderSameClock(t *testing.T) {
	store, ids := newTestStore(t, 3)
	frozen := func() time.Time { return slotStart }
	svc := NewReservationService(store, zap.NewNop(), WithClock(frozen))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i, id := range ids {
		res, err := svc.Submit(ctx, validForm(fmt.Sprintf("c%d@example.com", i), id))
		require.NoError(t, err)
		assert.False(t, seen[res.CandidateID])
		seen[res.CandidateID] = true
	}
}

type brokenStore struct {
	repository.Store
	err error
}

func (s brokenStore) InTx(ctx context.Context, fn func(tx repository.Tables) error) error {
	return s.err
}

func TestSubmit_StorageFailure(t *testing.T) {
	store, ids := newTestStore(t, 1)
	cause := errors.New("disk full")
	svc := NewReservationService(brokenStore{Store: store, err: cause}, zap.NewNop())

	_, err := svc.Submit(context.Background(), validForm("a@example.com", ids[0]))
	require.ErrorIs(t, err, model.ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, model.KindStorageUnavailable, model.KindOf(err))
}

func TestSubmit_IDGeneratorFailure(t *testing.T) {
	store, ids := newTestStore(t, 1)
	svc := NewReservationService(store, zap.NewNop(), WithIDGenerator(func() (string, error) {
		return "", errors.New("entropy exhausted")
	}))

	_, err := svc.Submit(context.Background(), validForm("a@example.com", ids[0]))
	assert.ErrorIs(t, err, model.ErrStorageUnavailable)

	candidates, err := store.Candidates().ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
