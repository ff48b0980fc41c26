package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/nimasrn/inbox-ledger/internal/files"
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var maria = &model.Contact{ID: 7, Phone: "5511999887766", Name: "Maria", FolderPath: "/storage/5511999887766_Maria"}

func TestMessageService_RecordText(t *testing.T) {
	ctx := context.Background()

	t.Run("stores text with empty metadata object", func(t *testing.T) {
		repo := new(MockMessageRepository)
		contacts := new(MockContactUpserter)
		contacts.On("Upsert", ctx, "5511999887766", "Maria").Return(maria, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(m *model.Message) bool {
			return m.ContactID == 7 && m.Kind == model.MessageKindText && m.Content == "Bom dia" &&
				string(m.Metadata) == "{}" && m.FilePath == "" && m.ContentHash == ""
		})).Return(&model.Message{ID: 11, ContactID: 7, Kind: model.MessageKindText}, nil)

		svc := NewMessageService(repo, contacts, new(MockFileCommitter), 0)
		msg, err := svc.RecordText(ctx, model.TextMessageRequest{Phone: "5511999887766", Text: "Bom dia", Name: "Maria"})
		require.NoError(t, err)
		assert.Equal(t, int64(11), msg.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects malformed metadata before touching the contact", func(t *testing.T) {
		contacts := new(MockContactUpserter)
		svc := NewMessageService(new(MockMessageRepository), contacts, new(MockFileCommitter), 0)

		_, err := svc.RecordText(ctx, model.TextMessageRequest{Phone: "5511999887766", Text: "x", Metadata: []byte("{not json")})
		assert.ErrorIs(t, err, ErrInvalidInput)
		contacts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockMessageRepository)
		contacts := new(MockContactUpserter)
		contacts.On("Upsert", ctx, mock.Anything, mock.Anything).Return(maria, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("database is locked"))

		_, err := NewMessageService(repo, contacts, new(MockFileCommitter), 0).
			RecordText(ctx, model.TextMessageRequest{Phone: "5511999887766", Text: "x"})
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestMessageService_RecordFile(t *testing.T) {
	ctx := context.Background()

	t.Run("stores committed file details", func(t *testing.T) {
		src := helpers.WriteSourceFile(t, "recibo.jpg", "jpeg")
		repo := new(MockMessageRepository)
		contacts := new(MockContactUpserter)
		committer := new(MockFileCommitter)
		stored := &files.StoredFile{
			Path:   "/storage/5511999887766_Maria/images/recibo.jpg",
			Name:   "recibo.jpg",
			Bucket: files.BucketImage,
			Size:   4,
			Hash:   "abc123",
		}
		contacts.On("Upsert", ctx, "5511999887766", "").Return(maria, nil)
		committer.On("Commit", ctx, "5511999887766", src, "").Return(stored, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(m *model.Message) bool {
			return m.Kind == model.MessageKindImage && m.FilePath == stored.Path && m.FileName == "recibo.jpg" &&
				m.FileSize == 4 && m.ContentHash == "abc123" && m.Content == "almoço 45,00"
		})).Return(&model.Message{ID: 12, Kind: model.MessageKindImage}, nil)

		msg, err := NewMessageService(repo, contacts, committer, 0).RecordFile(ctx, model.FileMessageRequest{
			Phone:      "5511999887766",
			SourcePath: src,
			Caption:    "almoço 45,00",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(12), msg.ID)
		committer.AssertNotCalled(t, "Remove", mock.Anything)
	})

	t.Run("missing source writes nothing", func(t *testing.T) {
		repo := new(MockMessageRepository)
		contacts := new(MockContactUpserter)
		committer := new(MockFileCommitter)

		_, err := NewMessageService(repo, contacts, committer, 0).RecordFile(ctx, model.FileMessageRequest{
			Phone:      "5511999887766",
			SourcePath: filepath.Join(t.TempDir(), "ghost.jpg"),
		})
		assert.ErrorIs(t, err, ErrSourceNotFound)
		assert.ErrorIs(t, err, ErrNotFound)
		contacts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
		committer.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("commit failure writes no row", func(t *testing.T) {
		src := helpers.WriteSourceFile(t, "recibo.jpg", "jpeg")
		repo := new(MockMessageRepository)
		contacts := new(MockContactUpserter)
		committer := new(MockFileCommitter)
		contacts.On("Upsert", ctx, mock.Anything, mock.Anything).Return(maria, nil)
		committer.On("Commit", ctx, mock.Anything, src, "").Return(nil, ErrContactUnresolved)

		_, err := NewMessageService(repo, contacts, committer, 0).RecordFile(ctx, model.FileMessageRequest{
			Phone:      "5511999887766",
			SourcePath: src,
		})
		assert.ErrorIs(t, err, ErrContactUnresolved)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("insert failure removes the committed file", func(t *testing.T) {
		src := helpers.WriteSourceFile(t, "nota.pdf", "%PDF")
		repo := new(MockMessageRepository)
		contacts := new(MockContactUpserter)
		committer := new(MockFileCommitter)
		stored := &files.StoredFile{Path: "/storage/x/documents/nota.pdf", Name: "nota.pdf", Bucket: files.BucketDocument}
		contacts.On("Upsert", ctx, mock.Anything, mock.Anything).Return(maria, nil)
		committer.On("Commit", ctx, mock.Anything, src, "").Return(stored, nil)
		committer.On("Remove", stored.Path).Return()
		repo.On("Create", ctx, mock.Anything).Return(nil, errors.New("constraint failed"))

		_, err := NewMessageService(repo, contacts, committer, 0).RecordFile(ctx, model.FileMessageRequest{
			Phone:      "5511999887766",
			SourcePath: src,
		})
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		committer.AssertCalled(t, "Remove", stored.Path)
	})

	t.Run("source path required", func(t *testing.T) {
		_, err := NewMessageService(new(MockMessageRepository), new(MockContactUpserter), new(MockFileCommitter), 0).
			RecordFile(ctx, model.FileMessageRequest{Phone: "5511999887766"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestMessageService_ListForContact(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive limit", func(t *testing.T) {
		svc := NewMessageService(new(MockMessageRepository), new(MockContactUpserter), new(MockFileCommitter), 0)
		for _, limit := range []int{0, -1} {
			_, err := svc.ListForContact(ctx, "5511999887766", limit)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	t.Run("limit is capped", func(t *testing.T) {
		repo := new(MockMessageRepository)
		repo.On("ListByPhone", ctx, "5511999887766", 50).Return([]*model.Message{}, nil)

		svc := NewMessageService(repo, new(MockContactUpserter), new(MockFileCommitter), 50)
		list, err := svc.ListForContact(ctx, "+55 11 99988 7766", 500)
		require.NoError(t, err)
		assert.Empty(t, list)
		repo.AssertExpectations(t)
	})

	t.Run("phone without digits is empty", func(t *testing.T) {
		repo := new(MockMessageRepository)
		svc := NewMessageService(repo, new(MockContactUpserter), new(MockFileCommitter), 0)
		list, err := svc.ListForContact(ctx, "unknown", 10)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		repo.AssertNotCalled(t, "ListByPhone", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMessageService_FindByHash(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMessageRepository)
	repo.On("FindByHash", ctx, "abc").Return([]*model.Message{{ID: 1}}, nil)
	svc := NewMessageService(repo, new(MockContactUpserter), new(MockFileCommitter), 0)

	list, err := svc.FindByHash(ctx, " ABC ")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.FindByHash(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
