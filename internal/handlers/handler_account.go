package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/SscSPs/branch_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// RegisterAccountRoutes registers read-only account routes under a branch scoped group.
func RegisterAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/balance-summary", h.balanceSummary)
		accounts.GET("/:account_id", h.getAccount)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists a branch's chart of accounts with running balances, ordered by code.
// @Tags accounts
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Could not list accounts"
// @Security BearerAuth
// @Router /branches/{branch_id}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("branch_id"))
	if err != nil {
		respondError(c, err, "list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Param   account_id path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Security BearerAuth
// @Router /branches/{branch_id}/accounts/{account_id} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("branch_id"), c.Param("account_id"))
	if err != nil {
		respondError(c, err, "retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(*account))
}

// balanceSummary godoc
// @Summary Account balance summary
// @Description Totals running balances by account type and checks the accounting equation.
// @Tags accounts
// @Produce  json
// @Param   branch_id path string true "Branch ID"
// @Success 200 {object} dto.BalanceSummaryResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /branches/{branch_id}/accounts/balance-summary [get]
func (h *accountHandler) balanceSummary(c *gin.Context) {
	summary, err := h.accountService.BalanceSummary(c.Request.Context(), c.Param("branch_id"))
	if err != nil {
		respondError(c, err, "summarize account balances")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(*summary))
}
