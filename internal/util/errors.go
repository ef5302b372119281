package util

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrDuplicateCode        = errors.New("code is already in use")
	ErrInUse                = errors.New("resource is referenced by other records")
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrFileTooLarge         = errors.New("file exceeds the maximum allowed size")
	ErrNoContent            = errors.New("no text content could be extracted")
	ErrExtractionInProgress = errors.New("extraction is already in progress")
	ErrExternalService      = errors.New("external service request failed")
	ErrInvalidAIResponse    = errors.New("could not parse questions from model output")
)
