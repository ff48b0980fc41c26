package services

import (
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound           = model.ErrNotFound
	ErrMessageNotFound    = model.ErrMessageNotFound
	ErrSourceNotFound     = model.ErrSourceNotFound
	ErrContactNotFound    = model.ErrContactNotFound
	ErrContactUnresolved  = model.ErrContactUnresolved
	ErrStorageUnavailable = model.ErrStorageUnavailable
	ErrInvalidInput       = model.ErrInvalidInput
	ErrInvalidTransition  = model.ErrInvalidTransition
)

// storageErr marks a persistence failure as StorageUnavailable; the driver
// error text is kept in the message.
func storageErr(op string, err error) error {
	return errors.Wrapf(ErrStorageUnavailable, "%s: %v", op, err)
}
