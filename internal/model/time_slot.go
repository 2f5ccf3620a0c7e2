package model

import (
	"fmt"
	"time"
)

// SlotIDLayout формат идентификатора слота "YYYY-MM-DD-HH:mm".
// Его разбирают отчёты и UI, поэтому менять формат нельзя.
const SlotIDLayout = "2006-01-02-15:04"

const (
	slotDateLayout = "2006-01-02"
	slotTimeLayout = "15:04"
)

type TimeSlot struct {
	ID      string     `json:"id"`
	Date    string     `json:"date"`
	Time    string     `json:"time"`
	Day     string     `json:"day"`
	Taken   bool       `json:"taken"`
	TakenBy *string    `json:"takenBy"` // nil пока слот свободен
	TakenAt *time.Time `json:"takenAt"`
}

// NewTimeSlot создаёт свободный слот для указанного времени
func NewTimeSlot(start time.Time) *TimeSlot {
	return &TimeSlot{
		ID:   start.Format(SlotIDLayout),
		Date: start.Format(slotDateLayout),
		Time: start.Format(slotTimeLayout),
		Day:  start.Weekday().String(),
	}
}

// ParseSlotID восстанавливает время начала слота из его идентификатора
func ParseSlotID(id string) (time.Time, error) {
	t, err := time.Parse(SlotIDLayout, id)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse slot id %q: %w", id, err)
	}
	return t, nil
}

// IsFree проверяет что слот можно забронировать
func (s *TimeSlot) IsFree() bool {
	return !s.Taken
}

// MarkTaken переводит слот в занятое состояние
func (s *TimeSlot) MarkTaken(candidateID string, at time.Time) {
	by := candidateID
	ts := at
	s.Taken = true
	s.TakenBy = &by
	s.TakenAt = &ts
}

// Clone возвращает независимую копию слота
func (s *TimeSlot) Clone() *TimeSlot {
	c := *s
	if s.TakenBy != nil {
		by := *s.TakenBy
		c.TakenBy = &by
	}
	if s.TakenAt != nil {
		at := *s.TakenAt
		c.TakenAt = &at
	}
	return &c
}
