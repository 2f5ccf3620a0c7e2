package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCandidateService(t *testing.T) {
	store, ids := newTestStore(t, 3)
	ctx := context.Background()

	clock := slotStart.Add(-30 * 24 * time.Hour)
	reservations := NewReservationService(store, zap.NewNop(), WithClock(func() time.Time { return clock }))

	old := validForm("old@example.com", ids[0])
	old.FullName = "Grace Hopper"
	old.Timezone = "America/New_York"
	_, err := reservations.Submit(ctx, old)
	require.NoError(t, err)

	clock = slotStart
	fresh, err := reservations.Submit(ctx, validForm("ada@example.com", ids[1]))
	require.NoError(t, err)

	svc := NewCandidateService(store, zap.NewNop())
	svc.now = func() time.Time { return slotStart.Add(time.Hour) }

	all, err := svc.List(ctx, model.CandidateFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "old@example.com", all[0].Email, "candidates keep submission order")

	recent, err := svc.List(ctx, model.CandidateFilter{Since: model.PeriodWeek})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, fresh.CandidateID, recent[0].ID)

	byName, err := svc.List(ctx, model.CandidateFilter{Search: "hopper"})
	require.NoError(t, err)
	require.Len(t, byName, 1)

	got, err := svc.GetByID(ctx, fresh.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrCandidateNotFound)

	zones, err := svc.Timezones(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"America/New_York", "Europe/London"}, zones)
}
