package handlers

import (
	"net/http"
	"time"

	"ledger-core/internal/pkg/apierr"

	"github.com/gin-gonic/gin"
)

// MakeResetHandler wipes all accounts and transactions. Used by tests,
// never by production traffic.
func MakeResetHandler(container HandlerDependencies) gin.HandlerFunc {
	accounts := container.Accounts()

	return func(c *gin.Context) {
		if err := accounts.Reset(c.Request.Context()); err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reset": true})
	}
}

// MakeRecoverPendingHandler rolls forward every stuck `pending` transaction.
func MakeRecoverPendingHandler(container HandlerDependencies) gin.HandlerFunc {
	sweeper := container.Recovery()

	return func(c *gin.Context) {
		report, err := sweeper.RecoverPendingTransactions(c.Request.Context())
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// MakeRecoverAppliedHandler rolls forward every stuck `applied` transaction.
func MakeRecoverAppliedHandler(container HandlerDependencies) gin.HandlerFunc {
	sweeper := container.Recovery()

	return func(c *gin.Context) {
		report, err := sweeper.RecoverAppliedTransactions(c.Request.Context())
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// MakeCancelPendingHandler rolls back every stuck `pending` transaction.
func MakeCancelPendingHandler(container HandlerDependencies) gin.HandlerFunc {
	sweeper := container.Recovery()

	return func(c *gin.Context) {
		report, err := sweeper.CancelPendingTransactions(c.Request.Context())
		if err != nil {
			apiErr := apierr.From(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// MakeGetAgeThresholdHandler returns the sweeper's current age threshold.
func MakeGetAgeThresholdHandler(container HandlerDependencies) gin.HandlerFunc {
	sweeper := container.Recovery()

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"age_threshold_ms": sweeper.GetAgeThreshold().Milliseconds()})
	}
}

// MakeSetAgeThresholdHandler updates the sweeper's age threshold at runtime.
func MakeSetAgeThresholdHandler(container HandlerDependencies) gin.HandlerFunc {
	sweeper := container.Recovery()

	return func(c *gin.Context) {
		var req struct {
			AgeThresholdMS int64 `json:"age_threshold_ms"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.AgeThresholdMS <= 0 {
			apiErr := apierr.NewValidationError("age_threshold_ms must be positive")
			c.JSON(apiErr.Status, apiErr)
			return
		}
		sweeper.SetAgeThreshold(time.Duration(req.AgeThresholdMS) * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"age_threshold_ms": req.AgeThresholdMS})
	}
}
