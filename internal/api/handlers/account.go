package handlers

import (
	"net/http"
	"strconv"

	"ledger-core/internal/pkg/apierr"
	"ledger-core/internal/pkg/logging"
	"ledger-core/internal/pkg/telemetry"

	"github.com/gin-gonic/gin"
)

func parseAccountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		apiErr := apierr.NewValidationError("invalid account id")
		c.JSON(apiErr.Status, apiErr)
		return 0, false
	}
	return id, true
}

func MakeCreateAccountHandler(container HandlerDependencies) gin.HandlerFunc {
	accounts := container.Accounts()

	return func(c *gin.Context) {
		id, err := accounts.CreateAccount(c.Request.Context())
		if err != nil {
			apiErr := apierr.From(err)
			logging.Error("failed to create account", err, nil)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

func MakeCloseAccountHandler(container HandlerDependencies) gin.HandlerFunc {
	accounts := container.Accounts()

	return func(c *gin.Context) {
		id, ok := parseAccountID(c)
		if !ok {
			return
		}
		if err := accounts.CloseAccount(c.Request.Context(), id); err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "closed": true})
	}
}

func MakeGetBalanceHandler(container HandlerDependencies) gin.HandlerFunc {
	accounts := container.Accounts()

	return func(c *gin.Context) {
		id, ok := parseAccountID(c)
		if !ok {
			return
		}
		balance, err := accounts.GetBalance(c.Request.Context(), id)
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		telemetry.RecordAccountBalance(float64(balance.MinorUnits()))
		c.JSON(http.StatusOK, gin.H{"id": id, "balance": balance.MinorUnits()})
	}
}

func MakeIsClosedHandler(container HandlerDependencies) gin.HandlerFunc {
	accounts := container.Accounts()

	return func(c *gin.Context) {
		id, ok := parseAccountID(c)
		if !ok {
			return
		}
		closed, err := accounts.IsClosed(c.Request.Context(), id)
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "closed": closed})
	}
}
