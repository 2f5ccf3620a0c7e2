package handlers

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/interview_scheduler/internal/controller/formatting"
	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/service"
)

// FormatAvailability форматирует список свободных слотов
func FormatAvailability(a *service.SlotAvailability, limit int) string {
	if a.TotalAvailable == 0 {
		return fmt.Sprintf("📭 No free slots left (%s in total).", formatting.PluralizeSlots(a.TotalSlots))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 Free: %d of %s\n\n", a.TotalAvailable, formatting.PluralizeSlots(a.TotalSlots))

	for i, slot := range a.AvailableSlots {
		if i == limit {
			fmt.Fprintf(&sb, "…and %d more", a.TotalAvailable-limit)
			break
		}
		fmt.Fprintf(&sb, "• %s\n", formatting.FormatSlotID(slot.ID))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatCandidates форматирует последних кандидатов, новые сверху
func FormatCandidates(candidates []*model.Candidate, limit int) string {
	if len(candidates) == 0 {
		return "👥 No candidates yet."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 %s\n", formatting.PluralizeCandidates(len(candidates)))

	shown := 0
	for i := len(candidates) - 1; i >= 0 && shown < limit; i-- {
		c := candidates[i]
		fmt.Fprintf(&sb, "\n%s <%s>\n", c.FullName, c.Email)
		fmt.Fprintf(&sb, "🌍 %s · applied %s\n", c.Timezone, formatting.FormatDateTime(c.CreatedAt))
		fmt.Fprintf(&sb, "🕐 %s\n", formatSlotList(c.SelectedSlots))
		shown++
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatReport форматирует сводку отчёта
func FormatReport(stats *model.ReportStats) string {
	return fmt.Sprintf(
		"📊 Report\n\n"+
			"Candidates: %d\n"+
			"Slots booked: %d\n"+
			"Slots available: %d of %d\n"+
			"Booking rate: %d%%",
		stats.TotalCandidates,
		stats.TotalSlotsBooked,
		stats.AvailableSlots,
		stats.TotalSlots,
		stats.BookingRate,
	)
}

// FormatBookingNotification сообщение сотрудникам о новом бронировании
func FormatBookingNotification(r *model.Reservation) string {
	c := r.Candidate

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ New interview booking\n\n")
	fmt.Fprintf(&sb, "👤 %s\n", c.FullName)
	fmt.Fprintf(&sb, "📧 %s\n", c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&sb, "📞 %s\n", c.Phone)
	}
	fmt.Fprintf(&sb, "🌍 %s\n", c.Timezone)
	fmt.Fprintf(&sb, "🕐 %s (%s)", formatSlotList(c.SelectedSlots), formatting.PluralizeSlots(r.BookedCount))

	return sb.String()
}

func formatSlotList(ids []string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, formatting.FormatSlotID(id))
	}
	return strings.Join(parts, "; ")
}
