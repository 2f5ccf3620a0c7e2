package service

import (
	"strings"
	"testing"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionForm_Normalize(t *testing.T) {
	form := &SubmissionForm{
		FullName:      "  Ada  ",
		Email:         " ada@example.com ",
		Timezone:      " UTC",
		SelectedSlots: []string{" a", "b", "a ", "b"},
	}

	form.Normalize()

	assert.Equal(t, "Ada", form.FullName)
	assert.Equal(t, "ada@example.com", form.Email)
	assert.Equal(t, "UTC", form.Timezone)
	assert.Equal(t, []string{"a", "b"}, form.SelectedSlots)
}

func TestSubmissionForm_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(f *SubmissionForm)
		wantFields []string
		wantErr    error
	}{
		{name: "valid", mutate: func(f *SubmissionForm) {}},
		{name: "missing name", mutate: func(f *SubmissionForm) { f.FullName = "" }, wantFields: []string{"fullName"}},
		{name: "missing email", mutate: func(f *SubmissionForm) { f.Email = "" }, wantFields: []string{"email"}},
		{name: "missing timezone", mutate: func(f *SubmissionForm) { f.Timezone = "" }, wantFields: []string{"timezone"}},
		{name: "no slots", mutate: func(f *SubmissionForm) { f.SelectedSlots = nil }, wantFields: []string{"selectedSlots"}},
		{name: "empty slot id", mutate: func(f *SubmissionForm) { f.SelectedSlots = []string{""} }, wantFields: []string{"selectedSlots"}},
		{name: "name too long", mutate: func(f *SubmissionForm) { f.FullName = strings.Repeat("я", maxNameLength+1) }, wantFields: []string{"fullName"}},
		{name: "several missing", mutate: func(f *SubmissionForm) { f.FullName, f.Timezone = "", "" }, wantFields: []string{"fullName", "timezone"}},
		{name: "email without at", mutate: func(f *SubmissionForm) { f.Email = "not-an-email" }, wantErr: model.ErrInvalidEmail},
		{name: "email without domain dot", mutate: func(f *SubmissionForm) { f.Email = "a@localhost" }, wantErr: model.ErrInvalidEmail},
		{name: "email with space", mutate: func(f *SubmissionForm) { f.Email = "a b@example.com" }, wantErr: model.ErrInvalidEmail},
		// обязательные поля проверяются раньше формата email
		{name: "missing name and bad email", mutate: func(f *SubmissionForm) { f.FullName, f.Email = "", "bad" }, wantFields: []string{"fullName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm("ada@example.com", "2024-03-18-10:00")
			tt.mutate(form)

			err := form.Validate()

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case len(tt.wantFields) > 0:
				var vErr *model.ValidationError
				require.ErrorAs(t, err, &vErr)
				for _, field := range tt.wantFields {
					assert.Contains(t, vErr.Fields, field)
				}
				assert.Len(t, vErr.Fields, len(tt.wantFields))
			default:
				assert.NoError(t, err)
			}
		})
	}
}
