package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountNamespace derives stable account ids from branch and code when a seed file gives none.
var accountNamespace = uuid.MustParse("6f1c7a8e-3f0b-4d43-9a51-0c2f1b7d9e44")

// accountService exposes the accounts registry to the API and the seeding command.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	branchRepo  portsrepo.BranchRepositoryFacade
}

// NewAccountService creates the account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, branchRepo portsrepo.BranchRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: accountRepo, branchRepo: branchRepo}
	svc.BranchReader = branchRepo
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccount(ctx context.Context, branchID, accountID string) (*domain.Account, error) {
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByID(ctx, branchID, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error) {
	if err := s.RequireBranch(ctx, branchID); err != nil {
		return nil, err
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, branchID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("branch_id", branchID))
		return nil, err
	}
	return accounts, nil
}

// BalanceSummary totals the running balances of active, postable accounts by type.
// Balances are kept on each account's normal side, so assets = liabilities + equity + net income
// holds whenever every posted entry balanced.
func (s *accountService) BalanceSummary(ctx context.Context, branchID string) (*domain.AccountBalanceSummary, error) {
	accounts, err := s.ListAccounts(ctx, branchID)
	if err != nil {
		return nil, err
	}

	summary := domain.AccountBalanceSummary{
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		TotalRevenue:     decimal.Zero,
		TotalExpenses:    decimal.Zero,
		Accounts:         make([]domain.Account, 0, len(accounts)),
	}
	for _, acc := range accounts {
		if !acc.IsPostable() {
			continue
		}
		summary.Accounts = append(summary.Accounts, acc)
		switch acc.AccountType {
		case domain.Asset:
			summary.TotalAssets = summary.TotalAssets.Add(acc.Balance)
		case domain.Liability:
			summary.TotalLiabilities = summary.TotalLiabilities.Add(acc.Balance)
		case domain.Equity:
			summary.TotalEquity = summary.TotalEquity.Add(acc.Balance)
		case domain.Revenue:
			summary.TotalRevenue = summary.TotalRevenue.Add(acc.Balance)
		case domain.Expense:
			summary.TotalExpenses = summary.TotalExpenses.Add(acc.Balance)
		}
	}
	summary.NetIncome = summary.TotalRevenue.Sub(summary.TotalExpenses)
	claims := summary.TotalLiabilities.Add(summary.TotalEquity).Add(summary.NetIncome)
	summary.IsBalanced = domain.IsBalanced(summary.TotalAssets, claims)
	return &summary, nil
}

// SeedChart saves every branch and account of chart. Saving is an upsert of metadata only, so
// seeding twice leaves balances untouched.
func (s *accountService) SeedChart(ctx context.Context, chart dto.ChartOfAccounts, actorID string) (int, error) {
	now := s.now()
	written := 0
	for _, cb := range chart.Branches {
		if cb.ID == "" {
			return written, fmt.Errorf("%w: branch %q has no id", apperrors.ErrValidation, cb.Code)
		}
		branch := domain.Branch{
			BranchID: cb.ID,
			Code:     cb.Code,
			Name:     cb.Name,
			IsActive: !cb.Inactive,
			AuditFields: domain.AuditFields{
				CreatedAt: now, CreatedBy: actorID, LastUpdatedAt: now, LastUpdatedBy: actorID,
			},
		}
		if err := s.branchRepo.SaveBranch(ctx, branch); err != nil {
			s.LogError(ctx, err, "Failed to save branch", slog.String("branch_id", cb.ID))
			return written, err
		}

		for _, ca := range cb.Accounts {
			account, err := chartAccountToDomain(cb.ID, ca)
			if err != nil {
				return written, err
			}
			account.AuditFields = branch.AuditFields
			if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
				s.LogError(ctx, err, "Failed to save account", slog.String("branch_id", cb.ID), slog.String("code", ca.Code))
				return written, err
			}
			written++
		}
		s.LogInfo(ctx, "Branch chart of accounts seeded", slog.String("branch_id", cb.ID), slog.Int("accounts", len(cb.Accounts)))
	}
	return written, nil
}

func chartAccountToDomain(branchID string, ca dto.ChartAccount) (domain.Account, error) {
	accType := domain.AccountType(strings.ToUpper(ca.Type))
	if !accType.IsValid() {
		return domain.Account{}, fmt.Errorf("%w: account %s has unknown type %q", apperrors.ErrValidation, ca.Code, ca.Type)
	}
	normal := accType.DefaultNormalBalance()
	if ca.NormalBalance != "" {
		normal = domain.NormalBalance(strings.ToUpper(ca.NormalBalance))
		if !normal.IsValid() {
			return domain.Account{}, fmt.Errorf("%w: account %s has unknown normal balance %q", apperrors.ErrValidation, ca.Code, ca.NormalBalance)
		}
	}
	if ca.Code == "" || ca.Name == "" {
		return domain.Account{}, fmt.Errorf("%w: accounts need a code and a name", apperrors.ErrValidation)
	}
	id := ca.ID
	if id == "" {
		id = uuid.NewSHA1(accountNamespace, []byte(branchID+"/"+ca.Code)).String()
	}
	return domain.Account{
		AccountID:     id,
		BranchID:      branchID,
		Code:          ca.Code,
		Name:          ca.Name,
		AccountType:   accType,
		NormalBalance: normal,
		Balance:       decimal.Zero,
		IsHeader:      ca.Header,
		IsActive:      !ca.Inactive,
		Description:   ca.Description,
	}, nil
}
