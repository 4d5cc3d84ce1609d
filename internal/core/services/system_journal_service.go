package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// posting is one debit/credit pair of a template.
type posting struct {
	debit  domain.AccountRole
	credit domain.AccountRole
	// cost selects CostAmount instead of Amount; the pair is skipped when CostAmount is zero.
	cost bool
}

type journalTemplate struct {
	refType     domain.ReferenceType
	description string
	postings    []posting
}

var cogsPair = posting{debit: domain.RoleCOGS, credit: domain.RoleInventory, cost: true}

var journalTemplates = map[domain.SystemJournalKind]journalTemplate{
	domain.KindCashSale: {domain.RefTransaction, "Cash sale", []posting{
		{debit: domain.RoleCash, credit: domain.RoleRevenue}, cogsPair,
	}},
	domain.KindCreditSale: {domain.RefReceivable, "Credit sale", []posting{
		{debit: domain.RoleReceivable, credit: domain.RoleRevenue}, cogsPair,
	}},
	domain.KindExpense: {domain.RefExpense, "Expense", []posting{
		{debit: domain.RoleExpense, credit: domain.RoleCash},
	}},
	domain.KindPayroll: {domain.RefPayroll, "Payroll payment", []posting{
		{debit: domain.RoleSalaryExpense, credit: domain.RoleCash},
	}},
	domain.KindAdvanceGiven: {domain.RefAdvance, "Employee advance", []posting{
		{debit: domain.RoleEmployeeAdvance, credit: domain.RoleCash},
	}},
	domain.KindAdvanceRepaid: {domain.RefAdvance, "Employee advance repayment", []posting{
		{debit: domain.RoleCash, credit: domain.RoleEmployeeAdvance},
	}},
	domain.KindReceivablePayment: {domain.RefReceivable, "Receivable payment", []posting{
		{debit: domain.RoleCash, credit: domain.RoleReceivable},
	}},
	domain.KindPayablePayment: {domain.RefPayable, "Payable payment", []posting{
		{debit: domain.RolePayable, credit: domain.RoleCash},
	}},
	domain.KindMaterialPurchase: {domain.RefPayable, "Material purchase", []posting{
		{debit: domain.RoleInventory, credit: domain.RolePayable},
	}},
	domain.KindTransfer: {domain.RefTransfer, "Transfer between accounts", []posting{
		{debit: domain.RoleToAccount, credit: domain.RoleFromAccount},
	}},
	domain.KindCashIn: {domain.RefManual, "Cash in", []posting{
		{debit: domain.RoleCash, credit: domain.RoleCounterAccount},
	}},
	domain.KindCashOut: {domain.RefManual, "Cash out", []posting{
		{debit: domain.RoleCounterAccount, credit: domain.RoleCash},
	}},
	domain.KindAssetPurchase: {domain.RefTransaction, "Fixed asset purchase", []posting{
		{debit: domain.RoleFixedAsset, credit: domain.RoleCash},
	}},
	domain.KindDepreciation: {domain.RefAdjustment, "Depreciation", []posting{
		{debit: domain.RoleDepreciationExpense, credit: domain.RoleAccumulatedDepreciation},
	}},
	domain.KindProductionCOGS: {domain.RefAdjustment, "Production cost of goods sold", []posting{
		{debit: domain.RoleCOGS, credit: domain.RoleInventory},
	}},
}

// systemJournalService turns business events into balanced, auto-posted entries.
type systemJournalService struct {
	BaseService
	posting portssvc.JournalWriterSvc
}

// NewSystemJournalService creates the generator on top of the posting engine.
func NewSystemJournalService(posting portssvc.JournalWriterSvc, options ...ServiceOption) portssvc.SystemJournalSvc {
	svc := &systemJournalService{posting: posting}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.SystemJournalSvc = (*systemJournalService)(nil)

// Generate builds the entry for req and creates it with AutoPost. ReferenceID makes retries safe.
func (s *systemJournalService) Generate(ctx context.Context, actor domain.Actor, branchID string, req domain.SystemJournalRequest) (*domain.EntryRef, error) {
	in, err := BuildSystemJournal(branchID, req)
	if err != nil {
		s.LogWarn(ctx, err, "System journal request rejected", slog.String("kind", string(req.Kind)))
		return nil, err
	}
	return s.posting.CreateEntry(ctx, actor, in)
}

// BuildSystemJournal expands a template into a create request. It performs no I/O.
func BuildSystemJournal(branchID string, req domain.SystemJournalRequest) (domain.CreateEntryInput, error) {
	tpl, ok := journalTemplates[req.Kind]
	if !ok {
		return domain.CreateEntryInput{}, fmt.Errorf("%w: unknown system journal kind %q", apperrors.ErrValidation, req.Kind)
	}
	if !req.Amount.IsPositive() {
		return domain.CreateEntryInput{}, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if req.CostAmount.IsNegative() {
		return domain.CreateEntryInput{}, fmt.Errorf("%w: cost amount cannot be negative", apperrors.ErrValidation)
	}

	var lines []domain.LineInput
	for _, p := range tpl.postings {
		amount := req.Amount
		if p.cost {
			amount = req.CostAmount
			if amount.IsZero() {
				continue
			}
		}
		debitID, err := roleAccount(req, p.debit)
		if err != nil {
			return domain.CreateEntryInput{}, err
		}
		creditID, err := roleAccount(req, p.credit)
		if err != nil {
			return domain.CreateEntryInput{}, err
		}
		lines = append(lines,
			domain.LineInput{AccountID: debitID, DebitAmount: amount, CreditAmount: decimal.Zero, Description: req.Memo},
			domain.LineInput{AccountID: creditID, DebitAmount: decimal.Zero, CreditAmount: amount, Description: req.Memo},
		)
	}

	description := tpl.description
	if req.Memo != "" {
		description = fmt.Sprintf("%s: %s", tpl.description, req.Memo)
	}
	return domain.CreateEntryInput{
		BranchID:      branchID,
		EntryDate:     req.Date,
		Description:   description,
		ReferenceType: tpl.refType,
		ReferenceID:   req.ReferenceID,
		Lines:         lines,
		AutoPost:      true,
	}, nil
}

func roleAccount(req domain.SystemJournalRequest, role domain.AccountRole) (string, error) {
	id := req.Accounts[role]
	if id == "" {
		return "", fmt.Errorf("%w: %s requires the %s account", apperrors.ErrMissingAccount, req.Kind, role)
	}
	return id, nil
}
