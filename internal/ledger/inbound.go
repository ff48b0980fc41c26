package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/nimasrn/inbox-ledger/internal/extractor"
	"github.com/nimasrn/inbox-ledger/internal/files"
	"github.com/nimasrn/inbox-ledger/internal/model"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/pkg/errors"
)

const (
	descriptionMaxRunes = 200

	categoryDocument       = "documento"
	noCaptionDescription   = "Arquivo enviado sem descrição"
	manualDescriptionLabel = "Despesa manual: "
)

// Receipt is the outcome of one inbound event: the stored message, the hint
// read from its text and the expense created from it, if any.
type Receipt struct {
	Message *model.Message
	Hint    extractor.Hint
	Expense *model.Expense
}

// ReceiveText stores an inbound text and, when it carries an amount, opens a
// pending expense for it. A blank text is rejected with ErrInvalidInput and
// nothing is stored.
func (l *Ledger) ReceiveText(ctx context.Context, req model.TextMessageRequest) (*Receipt, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "inbound text is empty")
	}
	msg, err := l.messages.RecordText(ctx, req)
	if err != nil {
		return nil, err
	}
	l.stats.Invalidate()

	r := &Receipt{Message: msg, Hint: extractor.Extract(req.Text)}
	if !r.Hint.Found {
		return r, nil
	}

	today := l.today()
	r.Expense, err = l.expenses.Create(ctx, model.ExpenseCreateRequest{
		MessageID:   msg.ID,
		Type:        model.ExpenseTypeTextValue,
		Amount:      r.Hint.Amount,
		Description: truncateRunes(req.Text, descriptionMaxRunes),
		Category:    r.Hint.Category,
		ExpenseDate: &today,
	})
	if err != nil {
		return r, errors.Wrapf(err, "message %d stored, expense not created", msg.ID)
	}
	l.stats.Invalidate()
	return r, nil
}

// ReceiveFile stores an inbound attachment. Images and documents are treated
// as receipts and open a pending expense, with the amount read from the
// caption when it has one.
func (l *Ledger) ReceiveFile(ctx context.Context, req model.FileMessageRequest) (*Receipt, error) {
	msg, err := l.recordFile(ctx, req)
	if err != nil {
		return nil, err
	}

	caption := strings.TrimSpace(req.Caption)
	r := &Receipt{Message: msg, Hint: extractor.Extract(caption)}
	if msg.Kind != files.BucketImage.Kind() && msg.Kind != files.BucketDocument.Kind() {
		return r, nil
	}

	category := r.Hint.Category
	description := truncateRunes(caption, descriptionMaxRunes)
	if caption == "" {
		category = categoryDocument
		description = noCaptionDescription
	}

	today := l.today()
	r.Expense, err = l.expenses.Create(ctx, model.ExpenseCreateRequest{
		MessageID:   msg.ID,
		Type:        model.ExpenseTypeReceipt,
		Amount:      r.Hint.Amount,
		Description: description,
		Category:    category,
		ExpenseDate: &today,
	})
	if err != nil {
		return r, errors.Wrapf(err, "message %d stored, expense not created", msg.ID)
	}
	l.stats.Invalidate()
	return r, nil
}

// CreateManualExpense records an operator-entered expense: a synthetic text
// message for the contact and the expense bound to it, written together.
func (l *Ledger) CreateManualExpense(ctx context.Context, req model.ManualExpenseRequest) (*model.Expense, error) {
	if !req.Amount.Valid {
		return nil, errors.Wrap(model.ErrInvalidInput, "manual expense amount is required")
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Type == "" {
		req.Type = model.ExpenseTypeManual
	}
	if req.Category == "" {
		req.Category = extractor.CategoryOther
	}
	date := l.today()
	if req.ExpenseDate != nil {
		date = *req.ExpenseDate
	}

	// registered outside the transaction so a lost insert race can retry as an update
	if _, err := l.contacts.Upsert(ctx, req.Phone, req.Name); err != nil {
		return nil, err
	}

	var created *model.Expense
	err := l.db.WithinTransaction(ctx, func(ctx context.Context) error {
		msg, err := l.messages.RecordText(ctx, model.TextMessageRequest{
			Phone: req.Phone,
			Text:  manualDescriptionLabel + req.Description,
		})
		if err != nil {
			return err
		}
		created, err = l.expenses.Create(ctx, model.ExpenseCreateRequest{
			MessageID:   msg.ID,
			Type:        req.Type,
			Amount:      req.Amount,
			Description: req.Description,
			Category:    req.Category,
			ExpenseDate: &date,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	l.stats.Invalidate()
	logger.Info("manual expense created", "expense_id", created.ID, "contact_id", created.ContactID)
	return created, nil
}

func (l *Ledger) today() time.Time {
	y, m, d := l.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
