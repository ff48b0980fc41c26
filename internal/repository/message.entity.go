package repository

import (
	"time"

	"github.com/nimasrn/inbox-ledger/internal/model"
	"gorm.io/datatypes"
)

type MessageEntity struct {
	ID          int64          `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	ContactID   int64          `db:"contact_id"   gorm:"column:contact_id;not null;index"`
	Phone       string         `db:"phone"        gorm:"column:phone;not null"`
	Kind        string         `db:"kind"         gorm:"column:kind;not null"`
	Content     string         `db:"content"      gorm:"column:content;not null;default:''"`
	FileName    string         `db:"file_name"    gorm:"column:file_name;not null;default:''"`
	FilePath    string         `db:"file_path"    gorm:"column:file_path;not null;default:''"`
	FileSize    int64          `db:"file_size"    gorm:"column:file_size;not null;default:0"`
	ContentHash string         `db:"content_hash" gorm:"column:content_hash;not null;default:''"`
	Metadata    datatypes.JSON `db:"metadata"     gorm:"column:metadata;not null"`
	ReceivedAt  time.Time      `db:"received_at"  gorm:"column:received_at;autoCreateTime"`
}

func (MessageEntity) TableName() string {
	return "messages"
}

func toMessageEntity(m *model.Message) *MessageEntity {
	if m == nil {
		return nil
	}
	metadata := m.Metadata
	if len(metadata) == 0 {
		metadata = datatypes.JSON("{}")
	}
	return &MessageEntity{
		ID:          m.ID,
		ContactID:   m.ContactID,
		Phone:       m.Phone,
		Kind:        string(m.Kind),
		Content:     m.Content,
		FileName:    m.FileName,
		FilePath:    m.FilePath,
		FileSize:    m.FileSize,
		ContentHash: m.ContentHash,
		Metadata:    metadata,
		ReceivedAt:  m.ReceivedAt,
	}
}

func toMessageModel(e *MessageEntity) *model.Message {
	if e == nil {
		return nil
	}
	return &model.Message{
		ID:          e.ID,
		ContactID:   e.ContactID,
		Phone:       e.Phone,
		Kind:        model.MessageKind(e.Kind),
		Content:     e.Content,
		FileName:    e.FileName,
		FilePath:    e.FilePath,
		FileSize:    e.FileSize,
		ContentHash: e.ContentHash,
		Metadata:    e.Metadata,
		ReceivedAt:  e.ReceivedAt,
	}
}

func toMessageModels(entities []*MessageEntity) []*model.Message {
	if entities == nil {
		return nil
	}
	models := make([]*model.Message, len(entities))
	for i, e := range entities {
		models[i] = toMessageModel(e)
	}
	return models
}

type messageWithContactRow struct {
	MessageEntity
	ContactName string `gorm:"column:contact_name"`
}

func toMessageWithContactModels(rows []*messageWithContactRow) []*model.Message {
	models := make([]*model.Message, len(rows))
	for i, r := range rows {
		m := toMessageModel(&r.MessageEntity)
		m.ContactName = r.ContactName
		models[i] = m
	}
	return models
}

type kindCountRow struct {
	Kind  string `gorm:"column:kind"`
	Total int64  `gorm:"column:total"`
}
