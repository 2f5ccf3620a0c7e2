package model

import (
	"strings"
	"time"
)

type Period string

const (
	PeriodAll   Period = "all"
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod разбирает период фильтра, пустая строка означает "all"
func ParsePeriod(s string) (Period, bool) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PeriodAll:
		return PeriodAll, true
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p, true
	}
	return "", false
}

// Start возвращает нижнюю границу createdAt для периода относительно now
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	}
	return time.Time{}, false
}

// CandidateFilter фильтр списка кандидатов в отчётах
type CandidateFilter struct {
	Search   string
	Timezone string
	Since    Period
}

// Match проверяет подходит ли кандидат под фильтр
func (f CandidateFilter) Match(c *Candidate, now time.Time) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(c.FullName), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) {
			return false
		}
	}

	if f.Timezone != "" && f.Timezone != "all" && c.Timezone != f.Timezone {
		return false
	}

	if from, ok := f.Since.Start(now); ok && c.CreatedAt.Before(from) {
		return false
	}

	return true
}

type ReportStats struct {
	TotalCandidates  int `json:"totalCandidates"`
	TotalSlotsBooked int `json:"totalSlotsBooked"`
	AvailableSlots   int `json:"availableSlots"`
	TotalSlots       int `json:"totalSlots"`
	BookingRate      int `json:"bookingRate"` // проценты, округлены
}
