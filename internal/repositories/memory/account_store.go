package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
)

func (s *Store) FindBranchByID(ctx context.Context, branchID string) (*domain.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.branches[branchID]
	if !ok {
		return nil, apperrors.NewNotFoundError("branch " + branchID)
	}
	return &b, nil
}

func (s *Store) SaveBranch(ctx context.Context, branch domain.Branch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.branches[branch.BranchID]; ok {
		branch.CreatedAt = existing.CreatedAt
		branch.CreatedBy = existing.CreatedBy
	}
	s.branches[branch.BranchID] = branch
	return nil
}

func (s *Store) FindAccountByID(ctx context.Context, branchID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok || a.BranchID != branchID {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &a, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, branchID string, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.accounts[id]; ok && a.BranchID == branchID {
			out[id] = a
		}
	}
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, branchID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Account
	for _, a := range s.accounts {
		if a.BranchID == branchID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// SaveAccount upserts account metadata; an existing running balance is kept.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.BranchID == account.BranchID && a.Code == account.Code && a.AccountID != account.AccountID {
			return fmt.Errorf("%w: account code %s already used in branch %s", apperrors.ErrDuplicate, account.Code, account.BranchID)
		}
	}
	if existing, ok := s.accounts[account.AccountID]; ok {
		if existing.BranchID != account.BranchID {
			return fmt.Errorf("%w: account %s belongs to another branch", apperrors.ErrDuplicate, account.AccountID)
		}
		if err := domain.CheckPolarityChange(existing, account, s.hasLivePostings(account.AccountID)); err != nil {
			return err
		}
		account.Balance = existing.Balance
		account.CreatedAt = existing.CreatedAt
		account.CreatedBy = existing.CreatedBy
	}
	s.accounts[account.AccountID] = account
	return nil
}

// hasLivePostings reports whether a posted, non-voided entry has a line on accountID.
func (s *Store) hasLivePostings(accountID string) bool {
	for _, e := range s.entries {
		if e.State() != domain.StatePosted {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID == accountID {
				return true
			}
		}
	}
	return false
}
