package model

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

// Failure taxonomy shared by every ledger layer. Callers match with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrContactUnresolved  = errors.New("contact not registered")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidInput       = errors.New("invalid input")
)

var (
	ErrMessageNotFound   = pkgerrors.WithMessage(ErrNotFound, "message")
	ErrSourceNotFound    = pkgerrors.WithMessage(ErrNotFound, "source file")
	ErrContactNotFound   = pkgerrors.WithMessage(ErrNotFound, "contact")
	ErrInvalidTransition = pkgerrors.WithMessage(ErrInvalidInput, "expense status transition not allowed")
)
