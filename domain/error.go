package domain

import "github.com/pkg/errors"

var (
	ErrNoData    = errors.New("no data")
	ErrDuplicate = errors.New("duplicate")
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidKey       = errors.New("invalid key")
	ErrKeyNotFound      = errors.New("key not found")
	ErrExpiredLink      = errors.New("expired link")
	ErrGenerationFailed = errors.New("generation failed")
	ErrRequestCancelled = errors.New("request cancelled")
)
