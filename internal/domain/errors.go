package domain

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyQueue         = errors.New("no tasks in the queue")
	ErrInvalidInput       = errors.New("invalid input")
)
