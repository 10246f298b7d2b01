package service

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidIndex = errors.New("invalid index")
	ErrPersistence  = errors.New("persistence failed")
)
