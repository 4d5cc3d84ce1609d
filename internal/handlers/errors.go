package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/branch_ledger/internal/apperrors"
	"github.com/SscSPs/branch_ledger/internal/core/domain"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/SscSPs/branch_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusForCode maps a ledger error code to its HTTP status.
func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.CodeUnbalanced, apperrors.CodeTooFewLines, apperrors.CodeMissingAccount,
		apperrors.CodeMissingBranch, apperrors.CodeReasonRequired, apperrors.CodeValidation:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidState, apperrors.CodeDuplicate:
		return http.StatusConflict
	case apperrors.CodeIntegrityViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body for a failed ledger operation. Server side failures never
// leak their cause; action completes the message "could not <action>".
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	code := apperrors.Code(err)
	status := statusForCode(code)
	resp := dto.ErrorResponse{Error: err.Error(), Code: string(code)}

	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.LineIndex >= 0 {
		line := verr.LineIndex
		resp.Line = &line
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Ledger operation failed", slog.String("action", action), slog.String("error", err.Error()))
		resp.Error = "could not " + action
		if errors.Is(err, context.DeadlineExceeded) {
			resp.Error += ", outcome unknown"
		}
		if code == apperrors.CodeUnknown {
			resp.Code = string(apperrors.CodePersistenceFailure)
		}
	} else {
		logger.Warn("Ledger operation rejected", slog.String("action", action), slog.String("error_code", string(code)), slog.String("error", err.Error()))
	}

	c.JSON(status, resp)
}

// respondBindError writes a 400 for a request that failed binding or tag validation.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error(), Code: string(apperrors.CodeValidation)})
}

// actorOrAbort returns the authenticated actor or writes a 401.
func actorOrAbort(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
