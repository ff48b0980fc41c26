package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"gorm.io/gorm"
)

type MessageRepository struct {
	*db.DB
}

func NewMessageRepository(db *db.DB) *MessageRepository {
	return &MessageRepository{
		db,
	}
}

func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	entity := toMessageEntity(msg)

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toMessageModel(entity), nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	var entity MessageEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMessageModel(&entity), nil
}

// ListByPhone returns the newest limit messages of phone, newest first.
func (r *MessageRepository) ListByPhone(ctx context.Context, phone string, limit int) ([]*model.Message, error) {
	var rows []*messageWithContactRow
	err := r.Read(ctx).
		Table("messages AS m").
		Select("m.*, COALESCE(c.name, '') AS contact_name").
		Joins("JOIN contacts AS c ON c.id = m.contact_id").
		Where("m.phone = ?", phone).
		Order("m.received_at DESC").
		Order("m.id DESC").
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return toMessageWithContactModels(rows), nil
}

// FindByHash returns every file message whose content hash equals hash, oldest first.
func (r *MessageRepository) FindByHash(ctx context.Context, hash string) ([]*model.Message, error) {
	var entities []*MessageEntity
	err := r.Read(ctx).
		Where("content_hash = ?", hash).
		Order("id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toMessageModels(entities), nil
}

func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.Read(ctx).Model(&MessageEntity{}).Count(&total).Error
	return total, err
}

func (r *MessageRepository) CountByKind(ctx context.Context) (map[model.MessageKind]int64, error) {
	var rows []kindCountRow
	err := r.Read(ctx).
		Model(&MessageEntity{}).
		Select("kind, COUNT(*) AS total").
		Group("kind").
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	out := make(map[model.MessageKind]int64, len(rows))
	for _, row := range rows {
		out[model.MessageKind(row.Kind)] = row.Total
	}
	return out, nil
}
