package handlers

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var monday = time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC)

func TestFormatAvailability(t *testing.T) {
	var slots []*model.TimeSlot
	for i := 0; i < 4; i++ {
		slots = append(slots, model.NewTimeSlot(monday.Add(time.Duration(10+i)*time.Hour)))
	}

	text := FormatAvailability(&service.SlotAvailability{
		AvailableSlots: slots,
		TotalAvailable: 4,
		TotalSlots:     6,
	}, 2)

	assert.Contains(t, text, "Free: 4 of 6 slots")
	assert.Contains(t, text, "Mon, Mar 18, 10:00")
	assert.Contains(t, text, "Mon, Mar 18, 11:00")
	assert.NotContains(t, text, "12:00")
	assert.Contains(t, text, "…and 2 more")

	empty := FormatAvailability(&service.SlotAvailability{TotalSlots: 1}, 10)
	assert.Contains(t, empty, "No free slots left (1 slot in total)")
}

func TestFormatCandidates_NewestFirst(t *testing.T) {
	candidates := []*model.Candidate{
		{FullName: "First", Email: "first@example.com", CreatedAt: monday},
		{FullName: "Second", Email: "second@example.com", CreatedAt: monday.Add(time.Hour)},
		{FullName: "Third", Email: "third@example.com", CreatedAt: monday.Add(2 * time.Hour)},
	}

	text := FormatCandidates(candidates, 2)

	assert.Contains(t, text, "3 candidates")
	assert.Less(t, strings.Index(text, "Third"), strings.Index(text, "Second"))
	assert.NotContains(t, text, "First")

	assert.Equal(t, "👥 No candidates yet.", FormatCandidates(nil, 5))
}

func TestFormatBookingNotification(t *testing.T) {
	text := FormatBookingNotification(&model.Reservation{
		CandidateID: "c1",
		BookedCount: 2,
		Candidate: &model.Candidate{
			FullName:      "Ada Lovelace",
			Email:         "ada@example.com",
			Timezone:      "Europe/London",
			SelectedSlots: []string{"2024-03-18-10:00", "2024-03-19-14:00"},
		},
	})

	assert.Contains(t, text, "Ada Lovelace")
	assert.Contains(t, text, "ada@example.com")
	assert.NotContains(t, text, "📞", "phone line is omitted when empty")
	assert.Contains(t, text, "Mon, Mar 18, 10:00; Tue, Mar 19, 14:00 (2 slots)")
}

func TestFormatReport(t *testing.T) {
	text := FormatReport(&model.ReportStats{
		TotalCandidates:  2,
		TotalSlotsBooked: 3,
		AvailableSlots:   3,
		TotalSlots:       6,
		BookingRate:      50,
	})

	assert.Contains(t, text, "Slots available: 3 of 6")
	assert.Contains(t, text, "Booking rate: 50%")
}

func TestWeekCallbackData(t *testing.T) {
	data := WeekCallbackData(monday.Add(50 * time.Hour))
	assert.Equal(t, "week:2024-03-20", data)

	got, err := ParseWeekCallback(data)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseWeekCallback("slots:2024-03-20")
	assert.Error(t, err)
}

func TestFormatWeekCaption(t *testing.T) {
	taken := model.NewTimeSlot(monday.Add(10 * time.Hour))
	taken.MarkTaken("c1", monday)
	slots := []*model.TimeSlot{
		taken,
		model.NewTimeSlot(monday.Add(6*24*time.Hour + 23*time.Hour)),
		model.NewTimeSlot(monday.Add(7 * 24 * time.Hour)),
	}

	caption := FormatWeekCaption(monday.Add(3*24*time.Hour), slots)

	assert.Equal(t, "🗓 Mar 18 - Mar 24: 1 free of 2", caption)
}

func TestIsStaffChat(t *testing.T) {
	h := NewHandlers(nil, nil, nil, []int64{100, -200}, nil, zap.NewNop())

	assert.True(t, h.IsStaffChat(100))
	assert.True(t, h.IsStaffChat(-200))
	assert.False(t, h.IsStaffChat(300))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
