package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/branch_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// PosthogMiddleware tracks successful API reads and writes with PostHog.
// Ledger mutations are additionally reported by the services' notifier.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/branches/:branch_id/journals" -> "api_v1_branches_branch_id_journals"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.NewReplacer("/", "_", ":", "").Replace(eventName)
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if branchID := c.Param("branch_id"); branchID != "" {
			props["branch_id"] = branchID
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}
