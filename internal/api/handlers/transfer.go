package handlers

import (
	"net/http"
	"time"

	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/pkg/apierr"
	"ledger-core/internal/pkg/logging"
	"ledger-core/internal/pkg/money"

	"github.com/gin-gonic/gin"
)

func MakeTransferHandler(container HandlerDependencies) gin.HandlerFunc {
	transfers := container.Transfers()
	publisher := container.EventPublisher()

	return func(c *gin.Context) {
		var req struct {
			Source      int64 `json:"source"`
			Destination int64 `json:"destination"`
			Amount      int64 `json:"amount"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			apiErr := apierr.NewValidationError("invalid request body")
			c.JSON(apiErr.Status, apiErr)
			return
		}

		if req.Amount <= 0 {
			apiErr := apierr.NewValidationError("amount must be positive")
			c.JSON(apiErr.Status, apiErr)
			return
		}

		if req.Source == req.Destination {
			apiErr := apierr.NewValidationError("source and destination must differ")
			c.JSON(apiErr.Status, apiErr)
			return
		}

		if err := publisher.PublishTransferStarted(messaging.TransferStartedEvent{
			Source:      req.Source,
			Destination: req.Destination,
			Amount:      req.Amount,
			Timestamp:   time.Now().UTC(),
		}); err != nil {
			logging.Warn("failed to publish transfer started event", map[string]interface{}{"error": err.Error()})
		}

		txn, err := transfers.Transfer(c.Request.Context(), req.Source, req.Destination, money.FromMinorUnits(req.Amount))
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}

		if err := publisher.PublishTransferCompleted(messaging.TransferCompletedEvent{
			TransactionID: txn.ID,
			Source:        txn.Source,
			Destination:   txn.Destination,
			Amount:        txn.Value,
			Timestamp:     time.Now().UTC(),
		}); err != nil {
			logging.Warn("failed to publish transfer completed event", map[string]interface{}{"error": err.Error()})
		}

		c.JSON(http.StatusOK, gin.H{
			"transaction_id": txn.ID,
			"source":         txn.Source,
			"destination":    txn.Destination,
			"amount":         txn.Value,
			"state":          txn.State,
		})
	}
}
