package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/SscSPs/branch_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type systemJournalHandler struct {
	systemJournalService portssvc.SystemJournalSvc
}

// RegisterSystemJournalRoutes registers the system journal generator route under a branch scoped group.
func RegisterSystemJournalRoutes(rg *gin.RouterGroup, svc portssvc.SystemJournalSvc) {
	h := &systemJournalHandler{systemJournalService: svc}
	rg.POST("/system-journals", h.generate)
}

// generate godoc
// @Summary Generate a system journal entry
// @Description Builds a balanced entry for a business event from its template and posts it.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   event body dto.SystemJournalRequest true "Business event"
// @Success 201 {object} dto.CreateJournalEntryResponse
// @Success 200 {object} dto.CreateJournalEntryResponse "Replayed reference"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Could not save journal entry"
// @Security BearerAuth
// @Router /branches/{branch_id}/system-journals [post]
func (h *systemJournalHandler) generate(c *gin.Context) {
	var req dto.SystemJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	ref, err := h.systemJournalService.Generate(c.Request.Context(), actor, c.Param("branch_id"), req.ToDomain())
	if err != nil {
		respondError(c, err, "save journal entry")
		return
	}

	status := http.StatusCreated
	if ref.Replayed {
		status = http.StatusOK
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("System journal generated",
		slog.String("kind", req.Kind), slog.String("entry_id", ref.EntryID), slog.Bool("replayed", ref.Replayed))
	c.JSON(status, dto.ToCreateJournalEntryResponse(*ref))
}
