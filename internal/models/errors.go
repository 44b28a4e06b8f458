package models

import (
	"errors"
)

var (
	ErrValidation         = errors.New("models: validation failed")
	ErrUnauthenticated    = errors.New("models: authentication required")
	ErrPermissionDenied   = errors.New("models: permission denied")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrAdNotFound         = errors.New("models: ad not found")
	ErrProposalNotFound   = errors.New("models: exchange proposal not found")
	ErrSessionNotFound    = errors.New("models: session not found")
	ErrSameAd             = errors.New("models: proposal must reference two distinct ads")
	ErrInvalidStatus      = errors.New("models: proposal status does not allow this transition")
)
