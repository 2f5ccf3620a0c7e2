package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrDuplicateEmail     = errors.New("a candidate with this email already exists")
	ErrSlotNotFound       = errors.New("time slot not found")
	ErrSlotsUnavailable   = errors.New("some selected time slots are no longer available")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCandidateNotFound  = errors.New("candidate not found")
)

type ErrorKind string

const (
	KindValidationFailed   ErrorKind = "validation_failed"
	KindInvalidEmail       ErrorKind = "invalid_email"
	KindDuplicateEmail     ErrorKind = "duplicate_email"
	KindSlotNotFound       ErrorKind = "slot_not_found"
	KindSlotsUnavailable   ErrorKind = "slots_unavailable"
	KindCandidateNotFound  ErrorKind = "candidate_not_found"
	KindStorageUnavailable ErrorKind = "storage_unavailable"
)

// ValidationError ошибки по полям заявки
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidationFailed.Error()
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// SlotNotFoundError запрошен слот которого нет в хранилище
type SlotNotFoundError struct {
	ID string
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotNotFound, e.ID)
}

func (e *SlotNotFoundError) Unwrap() error { return ErrSlotNotFound }

// SlotsUnavailableError часть запрошенных слотов уже занята
type SlotsUnavailableError struct {
	IDs []string
}

func (e *SlotsUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlotsUnavailable, strings.Join(e.IDs, ", "))
}

func (e *SlotsUnavailableError) Unwrap() error { return ErrSlotsUnavailable }

// StorageError сбой хранилища. Пользователю показывается общее сообщение,
// подробности только в логах
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageUnavailable, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// KindOf определяет вид ошибки. Всё что не распознано считается сбоем хранилища
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationFailed):
		return KindValidationFailed
	case errors.Is(err, ErrInvalidEmail):
		return KindInvalidEmail
	case errors.Is(err, ErrDuplicateEmail):
		return KindDuplicateEmail
	case errors.Is(err, ErrSlotNotFound):
		return KindSlotNotFound
	case errors.Is(err, ErrSlotsUnavailable):
		return KindSlotsUnavailable
	case errors.Is(err, ErrCandidateNotFound):
		return KindCandidateNotFound
	}
	return KindStorageUnavailable
}

// IsDomainError проверяет что ошибка относится к отказу в запросе, а не к сбою
func IsDomainError(err error) bool {
	return err != nil && KindOf(err) != KindStorageUnavailable
}
