package services

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"strings"

	"github.com/nimasrn/inbox-ledger/internal/files"
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/nimasrn/inbox-ledger/pkg/prom"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const defaultMaxListLimit = 1000

type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) (*model.Message, error)
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	ListByPhone(ctx context.Context, phone string, limit int) ([]*model.Message, error)
	FindByHash(ctx context.Context, hash string) ([]*model.Message, error)
}

type ContactUpserter interface {
	Upsert(ctx context.Context, phone, name string) (*model.Contact, error)
}

type FileCommitter interface {
	Commit(ctx context.Context, phone, sourcePath, fileName string) (*files.StoredFile, error)
	Remove(path string)
}

type MessageService struct {
	messageRepo  MessageRepository
	contacts     ContactUpserter
	files        FileCommitter
	maxListLimit int
}

func NewMessageService(messageRepo MessageRepository, contacts ContactUpserter, files FileCommitter, maxListLimit int) *MessageService {
	if maxListLimit <= 0 {
		maxListLimit = defaultMaxListLimit
	}
	return &MessageService{
		messageRepo:  messageRepo,
		contacts:     contacts,
		files:        files,
		maxListLimit: maxListLimit,
	}
}

// RecordText registers the sender and stores one text message.
func (s *MessageService) RecordText(ctx context.Context, req model.TextMessageRequest) (*model.Message, error) {
	meta, err := metadataOf(req.Metadata)
	if err != nil {
		return nil, err
	}

	contact, err := s.contacts.Upsert(ctx, req.Phone, req.Name)
	if err != nil {
		return nil, err
	}

	msg, err := s.messageRepo.Create(ctx, &model.Message{
		ContactID: contact.ID,
		Phone:     contact.Phone,
		Kind:      model.MessageKindText,
		Content:   req.Text,
		Metadata:  meta,
	})
	if err != nil {
		return nil, storageErr("create text message", err)
	}

	prom.IncMessagesRecorded(string(msg.Kind))
	logger.Info("message recorded", "message_id", msg.ID, "contact_id", contact.ID, "phone", contact.Phone, "kind", msg.Kind)
	return msg, nil
}

// RecordFile registers the sender, commits the source file into the contact
// folder and stores one file message. Either both the file and the row are
// written or neither is.
func (s *MessageService) RecordFile(ctx context.Context, req model.FileMessageRequest) (*model.Message, error) {
	if strings.TrimSpace(req.SourcePath) == "" {
		return nil, errors.Wrap(ErrInvalidInput, "source path is required")
	}
	meta, err := metadataOf(req.Metadata)
	if err != nil {
		return nil, err
	}

	// checked before registration so a bad path leaves no folder behind
	if _, err := os.Stat(req.SourcePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(ErrSourceNotFound, req.SourcePath)
		}
		return nil, errors.Wrapf(ErrStorageUnavailable, "stat %s: %v", req.SourcePath, err)
	}

	contact, err := s.contacts.Upsert(ctx, req.Phone, req.Name)
	if err != nil {
		return nil, err
	}

	stored, err := s.files.Commit(ctx, contact.Phone, req.SourcePath, req.FileName)
	if err != nil {
		prom.IncFileCommitFailures()
		return nil, err
	}

	msg, err := s.messageRepo.Create(ctx, &model.Message{
		ContactID:   contact.ID,
		Phone:       contact.Phone,
		Kind:        stored.Bucket.Kind(),
		Content:     req.Caption,
		FileName:    stored.Name,
		FilePath:    stored.Path,
		FileSize:    stored.Size,
		ContentHash: stored.Hash,
		Metadata:    meta,
	})
	if err != nil {
		s.files.Remove(stored.Path)
		return nil, storageErr("create file message", err)
	}

	prom.IncMessagesRecorded(string(msg.Kind))
	logger.Info("message recorded",
		"message_id", msg.ID,
		"contact_id", contact.ID,
		"phone", contact.Phone,
		"kind", msg.Kind,
		"path", stored.Path,
	)
	return msg, nil
}

// ListForContact returns up to limit messages of phone, newest first. An
// unknown phone yields an empty list.
func (s *MessageService) ListForContact(ctx context.Context, phone string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "limit must be positive, got %d", limit)
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	phone = model.NormalizePhone(phone)
	if phone == "" {
		return []*model.Message{}, nil
	}

	list, err := s.messageRepo.ListByPhone(ctx, phone, limit)
	if err != nil {
		return nil, storageErr("list messages", err)
	}
	return list, nil
}

// FindByHash returns every file message whose content hash equals hash.
func (s *MessageService) FindByHash(ctx context.Context, hash string) ([]*model.Message, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if hash == "" {
		return nil, errors.Wrap(ErrInvalidInput, "hash is required")
	}
	list, err := s.messageRepo.FindByHash(ctx, hash)
	if err != nil {
		return nil, storageErr("find messages by hash", err)
	}
	return list, nil
}

func metadataOf(raw []byte) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return datatypes.JSON("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.Wrap(ErrInvalidInput, "metadata is not valid JSON")
	}
	return datatypes.JSON(raw), nil
}
