package entity

import (
	"errors"
	"fmt"
)

// InvalidInputError вход не подходит для обработки (пустой текст, битое фото).
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewInvalidInput создаёт InvalidInputError.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// RenderFailure ошибка построения диаграммы или записи файла.
type RenderFailure struct {
	Artifact ArtifactKind
	Err      error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render %s: %v", e.Artifact, e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }

// ExternalProviderFailure сбой обращения к внешней модели.
type ExternalProviderFailure struct {
	Provider   string
	Op         string
	StatusCode int // 0, если HTTP-статус неизвестен
	Err        error
}

func (e *ExternalProviderFailure) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ExternalProviderFailure) Unwrap() error { return e.Err }

// IsInvalidInput сообщает, есть ли в цепочке InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsProviderFailure сообщает, есть ли в цепочке ExternalProviderFailure.
func IsProviderFailure(err error) bool {
	var target *ExternalProviderFailure
	return errors.As(err, &target)
}
