package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrSlotConflict = errors.New("time slot is no longer available")
	ErrUnauthorized = errors.New("unauthorized")
)

// StoreError - любая ошибка внешнего хранилища
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError оборачивает ошибку хранилища, nil остаётся nil
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ValidationError - некорректный ввод, отклонённый до обращения к хранилищу
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation проверяет, является ли ошибка ошибкой валидации
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsStore проверяет, является ли ошибка ошибкой хранилища
func IsStore(err error) bool {
	var s *StoreError
	return errors.As(err, &s)
}
