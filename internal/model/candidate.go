package model

import (
	"strings"
	"time"
)

type Candidate struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Timezone        string    `json:"timezone"`
	Experience      string    `json:"experience"`
	Motivation      string    `json:"motivation"`
	AdditionalNotes string    `json:"additionalNotes"`
	SelectedSlots   []string  `json:"selectedSlots"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Clone возвращает независимую копию кандидата
func (c *Candidate) Clone() *Candidate {
	cp := *c
	cp.SelectedSlots = append([]string(nil), c.SelectedSlots...)
	return &cp
}

// NormalizeEmail приводит email к виду, по которому проверяется уникальность
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Reservation результат успешной подачи заявки
type Reservation struct {
	CandidateID string      `json:"candidateId"`
	BookedCount int         `json:"bookedSlots"`
	Candidate   *Candidate  `json:"-"`
	Slots       []*TimeSlot `json:"-"`
}
