package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/Freeeeeet/interview_scheduler/internal/repository"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// emailPattern тот же шаблон, что проверяет форма в браузере
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	maxNameLength = 200
	maxTextLength = 5000
)

// SubmissionForm данные формы кандидата
type SubmissionForm struct {
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Timezone        string   `json:"timezone"`
	Experience      string   `json:"experience"`
	Motivation      string   `json:"motivation"`
	AdditionalNotes string   `json:"additionalNotes"`
	SelectedSlots   []string `json:"selectedSlots"`
}

// Normalize обрезает пробелы и убирает повторяющиеся слоты
func (f *SubmissionForm) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Timezone = strings.TrimSpace(f.Timezone)
	f.Experience = strings.TrimSpace(f.Experience)
	f.Motivation = strings.TrimSpace(f.Motivation)
	f.AdditionalNotes = strings.TrimSpace(f.AdditionalNotes)

	slots := make([]string, 0, len(f.SelectedSlots))
	for _, id := range f.SelectedSlots {
		slots = append(slots, strings.TrimSpace(id))
	}
	f.SelectedSlots = repository.UniqueIDs(slots)
}

// Normalized возвращает нормализованную копию формы
func (f *SubmissionForm) Normalized() *SubmissionForm {
	c := *f
	c.Normalize()
	return &c
}

// Validate проверяет обязательные поля, затем формат email.
// Возвращает *model.ValidationError или model.ErrInvalidEmail
func (f *SubmissionForm) Validate() error {
	err := validation.ValidateStruct(f,
		validation.Field(&f.FullName, validation.Required, validation.RuneLength(0, maxNameLength)),
		validation.Field(&f.Email, validation.Required),
		validation.Field(&f.Timezone, validation.Required),
		validation.Field(&f.SelectedSlots,
			validation.Required.Error("select at least one time slot"),
			validation.Each(validation.Required),
		),
		validation.Field(&f.Experience, validation.RuneLength(0, maxTextLength)),
		validation.Field(&f.Motivation, validation.RuneLength(0, maxTextLength)),
		validation.Field(&f.AdditionalNotes, validation.RuneLength(0, maxTextLength)),
	)
	if err != nil {
		return toValidationError(err)
	}

	if err := validation.Validate(f.Email, validation.Match(emailPattern)); err != nil {
		return model.ErrInvalidEmail
	}

	return nil
}

func (f *SubmissionForm) toCandidate(id string, createdAt time.Time) *model.Candidate {
	return &model.Candidate{
		ID:              id,
		FullName:        f.FullName,
		Email:           f.Email,
		Phone:           f.Phone,
		Timezone:        f.Timezone,
		Experience:      f.Experience,
		Motivation:      f.Motivation,
		AdditionalNotes: f.AdditionalNotes,
		SelectedSlots:   append([]string(nil), f.SelectedSlots...),
		CreatedAt:       createdAt,
	}
}

func toValidationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &model.ValidationError{Fields: map[string]string{"form": err.Error()}}
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	return &model.ValidationError{Fields: fields}
}
