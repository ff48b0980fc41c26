package model

import (
	"time"

	"gorm.io/datatypes"
)

// MessageKind is "text" or the bucket of the attached file.
type MessageKind string

const (
	MessageKindText     MessageKind = "text"
	MessageKindImage    MessageKind = "image"
	MessageKindAudio    MessageKind = "audio"
	MessageKindVideo    MessageKind = "video"
	MessageKindDocument MessageKind = "document"
	MessageKindOther    MessageKind = "other"
)

func (k MessageKind) IsFile() bool {
	return k != MessageKindText && k != ""
}

type Message struct {
	ID          int64          `json:"id"`
	ContactID   int64          `json:"contact_id"`
	Phone       string         `json:"phone"`
	Kind        MessageKind    `json:"kind"`
	Content     string         `json:"content"`
	FileName    string         `json:"file_name,omitempty"`
	FilePath    string         `json:"file_path,omitempty"`
	FileSize    int64          `json:"file_size,omitempty"`
	ContentHash string         `json:"content_hash,omitempty"`
	Metadata    datatypes.JSON `json:"metadata"`
	ReceivedAt  time.Time      `json:"received_at"`
	ContactName string         `json:"contact_name,omitempty"`
}

// TextMessageRequest is the input for recording an inbound text.
type TextMessageRequest struct {
	Phone string
	Text  string
	// Name replaces the stored contact name only when non-empty.
	Name string
	// Metadata is stored as-is; nil is stored as an empty object.
	Metadata []byte
}

// FileMessageRequest is the input for recording an inbound attachment.
type FileMessageRequest struct {
	Phone      string
	SourcePath string
	Name       string
	Caption    string
	Metadata   []byte
	// FileName overrides the stored base name; empty keeps the source name.
	FileName string
}
