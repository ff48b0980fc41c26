package services

import (
	"context"
	"strings"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/internal/repository"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/nimasrn/inbox-ledger/pkg/prom"
	"github.com/pkg/errors"
)

type ContactRepository interface {
	FindByPhone(ctx context.Context, phone string) (*model.Contact, error)
	Create(ctx context.Context, c *model.Contact) (*model.Contact, error)
	Touch(ctx context.Context, id int64, name string, at time.Time) error
	List(ctx context.Context) ([]*model.ContactSummary, error)
}

type FolderAllocator interface {
	EnsureContactFolder(phone, name string) (string, error)
}

// ContactService keeps exactly one contact per normalized phone number.
type ContactService struct {
	contactRepo ContactRepository
	folders     FolderAllocator
}

func NewContactService(contactRepo ContactRepository, folders FolderAllocator) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		folders:     folders,
	}
}

// Upsert registers phone or refreshes its last contact time. A non-empty name
// replaces the stored one; an empty name keeps it.
func (s *ContactService) Upsert(ctx context.Context, phone, name string) (*model.Contact, error) {
	phone = model.NormalizePhone(phone)
	if phone == "" {
		return nil, errors.Wrap(ErrInvalidInput, "phone has no digits")
	}
	name = strings.TrimSpace(name)

	existing, err := s.contactRepo.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		return s.touch(ctx, existing, name)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageErr("find contact", err)
	}

	folder, err := s.folders.EnsureContactFolder(phone, name)
	if err != nil {
		return nil, err
	}

	created, err := s.contactRepo.Create(ctx, &model.Contact{
		Phone:      phone,
		Name:       name,
		FolderPath: folder,
	})
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, storageErr("create contact", err)
		}
		// lost the insert race; the winner's row and folder stand
		existing, err = s.contactRepo.FindByPhone(ctx, phone)
		if err != nil {
			return nil, storageErr("find contact after duplicate", err)
		}
		return s.touch(ctx, existing, name)
	}

	prom.IncContactsRegistered()
	logger.Info("contact registered", "contact_id", created.ID, "phone", phone, "path", folder)
	return created, nil
}

func (s *ContactService) touch(ctx context.Context, c *model.Contact, name string) (*model.Contact, error) {
	now := time.Now().UTC()
	if err := s.contactRepo.Touch(ctx, c.ID, name, now); err != nil {
		return nil, storageErr("touch contact", err)
	}
	c.LastContactAt = &now
	if name != "" {
		c.Name = name
	}
	return c, nil
}

// Find returns the contact registered under phone.
func (s *ContactService) Find(ctx context.Context, phone string) (*model.Contact, error) {
	c, err := s.contactRepo.FindByPhone(ctx, model.NormalizePhone(phone))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.Wrap(ErrContactNotFound, phone)
		}
		return nil, storageErr("find contact", err)
	}
	return c, nil
}

func (s *ContactService) List(ctx context.Context) ([]*model.ContactSummary, error) {
	list, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, storageErr("list contacts", err)
	}
	return list, nil
}
