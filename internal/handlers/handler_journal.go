package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/SscSPs/branch_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// RegisterJournalRoutes registers journal entry routes under a branch scoped group.
func RegisterJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createEntry)
		journals.GET("", h.listEntries)
		journals.GET("/summary", h.summarizeEntries)
		journals.GET("/:journal_id", h.getEntry)
		journals.PUT("/:journal_id", h.updateDraftEntry)
		journals.DELETE("/:journal_id", h.deleteDraftEntry)
		journals.POST("/:journal_id/post", h.postEntry)
		journals.POST("/:journal_id/void", h.voidEntry)
	}
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Validates and creates a draft journal entry, posting it immediately when autoPost is set.
// @Description Replaying a referenceType/referenceId that already has a live entry returns that entry.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} dto.CreateJournalEntryResponse
// @Success 200 {object} dto.CreateJournalEntryResponse "Replayed reference"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Could not save journal entry"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	branchID := c.Param("branch_id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("branch_id", branchID))

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	ref, err := h.journalService.CreateEntry(c.Request.Context(), actor, req.ToDomain(branchID))
	if err != nil {
		respondError(c, err, "save journal entry")
		return
	}

	status := http.StatusCreated
	if ref.Replayed {
		status = http.StatusOK
	}
	logger.Info("Journal entry created", slog.String("entry_id", ref.EntryID), slog.String("entry_number", ref.EntryNumber), slog.Bool("replayed", ref.Replayed))
	c.JSON(status, dto.ToCreateJournalEntryResponse(*ref))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists a branch's entries newest first, one page at a time.
// @Tags journals
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param   to query string false "Latest entry date (YYYY-MM-DD)"
// @Param   status query string false "draft, posted or voided"
// @Param   referenceType query string false "Reference type"
// @Param   limit query int false "Page size (max 100)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Could not list journal entries"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	entries, next, err := h.journalService.ListEntries(c.Request.Context(), params.ToFilter(c.Param("branch_id")))
	if err != nil {
		respondError(c, err, "list journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListJournalEntriesResponse(entries, next))
}

// summarizeEntries godoc
// @Summary Summarize journal entries
// @Description Totals a branch's entries by state and by reference type.
// @Tags journals
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   from query string false "Earliest entry date (YYYY-MM-DD)"
// @Param   to query string false "Latest entry date (YYYY-MM-DD)"
// @Param   status query string false "draft, posted or voided"
// @Param   referenceType query string false "Reference type"
// @Success 200 {object} dto.LedgerSummaryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals/summary [get]
func (h *journalHandler) summarizeEntries(c *gin.Context) {
	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	summary, err := h.journalService.SummarizeBranch(c.Request.Context(), params.ToFilter(c.Param("branch_id")))
	if err != nil {
		respondError(c, err, "summarize journal entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerSummaryResponse(*summary))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its lines.
// @Tags journals
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   journal_id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals/{journal_id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("branch_id"), c.Param("journal_id"))
	if err != nil {
		respondError(c, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}

// updateDraftEntry godoc
// @Summary Update a draft journal entry
// @Description Replaces the header and lines of a draft. Posted entries cannot be edited.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   journal_id path string true "Journal entry ID"
// @Param   entry body dto.UpdateJournalEntryRequest true "Replacement header and lines"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals/{journal_id} [put]
func (h *journalHandler) updateDraftEntry(c *gin.Context) {
	var req dto.UpdateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.journalService.UpdateDraftEntry(c.Request.Context(), actor, c.Param("branch_id"), c.Param("journal_id"), req.ToDomain())
	if err != nil {
		respondError(c, err, "save journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}

// deleteDraftEntry godoc
// @Summary Delete a draft journal entry
// @Tags journals
// @Param   branch_id path string true "Branch ID"
// @Param   journal_id path string true "Journal entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals/{journal_id} [delete]
func (h *journalHandler) deleteDraftEntry(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	if err := h.journalService.DeleteDraftEntry(c.Request.Context(), actor, c.Param("branch_id"), c.Param("journal_id")); err != nil {
		respondError(c, err, "delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Posts a draft and applies its lines to account balances.
// @Tags journals
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   journal_id path string true "Journal entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Could not post journal entry"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals/{journal_id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), actor, c.Param("branch_id"), c.Param("journal_id"))
	if err != nil {
		respondError(c, err, "post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}

// voidEntry godoc
// @Summary Void a posted journal entry
// @Description Reverses a posted entry's effect on account balances. A reason is required.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   journal_id path string true "Journal entry ID"
// @Param   void body dto.VoidJournalEntryRequest true "Void reason"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} dto.ErrorResponse "Reason required"
// @Failure 404 {object} dto.ErrorResponse "Journal entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not posted"
// @Failure 422 {object} dto.ErrorResponse "An account of the entry is missing or inactive"
// @Security BearerAuth
// @Router /branches/{branch_id}/journals/{journal_id}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	var req dto.VoidJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	entry, err := h.journalService.VoidEntry(c.Request.Context(), actor, c.Param("branch_id"), c.Param("journal_id"), req.Reason)
	if err != nil {
		respondError(c, err, "void journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(*entry))
}
