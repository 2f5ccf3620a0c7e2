package formatting

import (
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
)

// FormatSlotID форматирует id слота "YYYY-MM-DD-HH:mm" как "Mon, Jan 2, 15:04".
// Если id не разбирается, возвращается как есть
func FormatSlotID(id string) string {
	t, err := model.ParseSlotID(id)
	if err != nil {
		return id
	}
	return FormatSlotTime(t)
}

// FormatSlotTime форматирует начало слота
func FormatSlotTime(t time.Time) string {
	return t.Format("Mon, Jan 2, 15:04")
}

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ReportFileName имя файла выгрузки отчёта
func ReportFileName(now time.Time) string {
	return "candidates-report-" + FormatDate(now) + ".csv"
}
