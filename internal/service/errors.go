package service

import (
	"errors"

	"github.com/njprem/Todo_APP_BackEnd/internal/repository/ports"
)

var (
	ErrValidation             = errors.New("validation failed")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrTaskNotFound           = errors.New("task not found")
)

func isNotFound(err error) bool {
	return errors.Is(err, ports.ErrNotFound)
}
