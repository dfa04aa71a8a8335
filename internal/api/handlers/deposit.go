package handlers

import (
	"net/http"
	"time"

	"ledger-core/internal/domain/models"
	"ledger-core/internal/pkg/apierr"
	"ledger-core/internal/pkg/money"

	"github.com/gin-gonic/gin"
)

func MakeDepositHandler(container HandlerDependencies) gin.HandlerFunc {
	accounts := container.Accounts()
	broker := container.EventBroker()

	return func(c *gin.Context) {
		id, ok := parseAccountID(c)
		if !ok {
			return
		}

		var req struct {
			Amount int64 `json:"amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
			apiErr := apierr.NewValidationError("invalid amount")
			c.JSON(apiErr.Status, apiErr)
			return
		}

		balance, err := accounts.Deposit(c.Request.Context(), id, money.FromMinorUnits(req.Amount))
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}

		broker.Publish(models.TransactionEvent{
			Type:      "deposit",
			Source:    id,
			Amount:    req.Amount,
			Timestamp: time.Now().UTC(),
		})

		c.JSON(http.StatusOK, gin.H{"id": id, "balance": balance.MinorUnits()})
	}
}
