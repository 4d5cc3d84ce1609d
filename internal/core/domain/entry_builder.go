package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AmountSide selects the debit or credit column of a line.
type AmountSide string

const (
	SideDebit  AmountSide = "debit"
	SideCredit AmountSide = "credit"
)

// DraftLine is a line being assembled by an EntryBuilder.
type DraftLine struct {
	AccountID    string
	AccountCode  string
	AccountName  string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
	Description  string
}

// EntryBuilder assembles a candidate journal entry in memory. Nothing is persisted until the
// result of Build is submitted to the posting engine, which validates it again.
type EntryBuilder struct {
	BranchID      string
	EntryDate     time.Time
	Description   string
	ReferenceType ReferenceType
	ReferenceID   string
	AutoPost      bool

	lines []DraftLine
}

// NewEntryBuilder starts a manual entry with two empty lines.
func NewEntryBuilder(branchID string, entryDate time.Time) *EntryBuilder {
	return &EntryBuilder{
		BranchID:      branchID,
		EntryDate:     entryDate,
		ReferenceType: RefManual,
		lines:         []DraftLine{newDraftLine(), newDraftLine()},
	}
}

func newDraftLine() DraftLine {
	return DraftLine{DebitAmount: decimal.Zero, CreditAmount: decimal.Zero}
}

// Lines returns a copy of the current lines.
func (b *EntryBuilder) Lines() []DraftLine {
	out := make([]DraftLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// AddLine appends an empty line and returns its index.
func (b *EntryBuilder) AddLine() int {
	b.lines = append(b.lines, newDraftLine())
	return len(b.lines) - 1
}

// RemoveLine deletes the line at index. At least two lines always remain.
func (b *EntryBuilder) RemoveLine(index int) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if len(b.lines) <= MinLines {
		return newValidationError(apperrors.ErrTooFewLines, apperrors.CodeTooFewLines, index, "cannot remove line %d: an entry keeps at least %d lines", index+1, MinLines)
	}
	b.lines = append(b.lines[:index], b.lines[index+1:]...)
	return nil
}

// SetLineAccount points the line at account and snapshots its code and name.
func (b *EntryBuilder) SetLineAccount(index int, account Account) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if !account.IsPostable() {
		return newValidationError(apperrors.ErrMissingAccount, apperrors.CodeMissingAccount, index, "line %d: account %s is not postable", index+1, account.Code)
	}
	b.lines[index].AccountID = account.AccountID
	b.lines[index].AccountCode = account.Code
	b.lines[index].AccountName = account.Name
	return nil
}

// SetLineAmount sets one side of a line. A positive amount on one side clears the other.
func (b *EntryBuilder) SetLineAmount(index int, side AmountSide, value decimal.Decimal) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if value.IsNegative() {
		return newValidationError(apperrors.ErrValidation, apperrors.CodeValidation, index, "line %d: amounts cannot be negative", index+1)
	}
	line := &b.lines[index]
	switch side {
	case SideDebit:
		line.DebitAmount = value
		if value.IsPositive() {
			line.CreditAmount = decimal.Zero
		}
	case SideCredit:
		line.CreditAmount = value
		if value.IsPositive() {
			line.DebitAmount = decimal.Zero
		}
	default:
		return fmt.Errorf("%w: unknown amount side %q", apperrors.ErrValidation, side)
	}
	return nil
}

// SetLineDescription sets the optional memo of a line.
func (b *EntryBuilder) SetLineDescription(index int, description string) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	b.lines[index].Description = description
	return nil
}

// ComputeTotals sums both columns.
func (b *EntryBuilder) ComputeTotals() (debit, credit decimal.Decimal) {
	return ComputeTotals(b.inputs())
}

// Validate returns nil or a *ValidationError with reason UNBALANCED, TOO_FEW_LINES or MISSING_ACCOUNT.
func (b *EntryBuilder) Validate() error {
	return ValidateLines(b.inputs())
}

// Build validates and produces the input for the posting engine.
func (b *EntryBuilder) Build() (CreateEntryInput, error) {
	if err := b.Validate(); err != nil {
		return CreateEntryInput{}, err
	}
	return CreateEntryInput{
		BranchID:      b.BranchID,
		EntryDate:     b.EntryDate,
		Description:   b.Description,
		ReferenceType: b.ReferenceType,
		ReferenceID:   b.ReferenceID,
		Lines:         CompactLines(b.inputs()),
		AutoPost:      b.AutoPost,
	}, nil
}

func (b *EntryBuilder) inputs() []LineInput {
	out := make([]LineInput, len(b.lines))
	for i, l := range b.lines {
		out[i] = LineInput{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
		}
	}
	return out
}

func (b *EntryBuilder) checkIndex(index int) error {
	if index < 0 || index >= len(b.lines) {
		return fmt.Errorf("%w: line index %d out of range", apperrors.ErrValidation, index)
	}
	return nil
}
