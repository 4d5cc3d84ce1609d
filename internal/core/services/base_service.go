package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/branch_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/middleware"
)

// DefaultWriteTimeout bounds a single atomic ledger write.
const DefaultWriteTimeout = 10 * time.Second

// BaseService provides common functionality for all services
type BaseService struct {
	BranchReader portsrepo.BranchReader
	Notifier     portssvc.LedgerNotifier
	WriteTimeout time.Duration
	Now          func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()), slog.String("error_code", string(apperrors.Code(err))))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs an expected, caller-correctable failure.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()), slog.String("error_code", string(apperrors.Code(err))))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// RequireBranch checks that branchID is present and, when a branch registry is wired, that the
// branch exists and is active.
func (s *BaseService) RequireBranch(ctx context.Context, branchID string) error {
	if branchID == "" {
		return apperrors.ErrMissingBranch
	}
	if s.BranchReader == nil {
		return nil
	}
	branch, err := s.BranchReader.FindBranchByID(ctx, branchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: branch %s", apperrors.ErrNotFound, branchID)
		}
		return err
	}
	if !branch.IsActive {
		return fmt.Errorf("%w: branch %s is inactive", apperrors.ErrInvalidState, branchID)
	}
	return nil
}

// writeContext bounds an atomic write so the caller learns about a stuck store.
func (s *BaseService) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// classifyWriteError keeps taxonomy errors as they are and turns everything else into a
// PERSISTENCE_FAILURE. A deadline means the outcome of the write is unknown.
func (s *BaseService) classifyWriteError(ctx context.Context, err error, action string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewPersistenceError(fmt.Sprintf("%s did not complete in time, outcome unknown", action), err)
	}
	switch apperrors.Code(err) {
	case apperrors.CodeUnknown:
		return apperrors.NewPersistenceError(fmt.Sprintf("could not %s", action), err)
	default:
		return err
	}
}

// notify reports to the notifier, if any. It never fails the caller.
func (s *BaseService) notify(ctx context.Context, event portssvc.LedgerEvent) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Notify(ctx, event)
}
