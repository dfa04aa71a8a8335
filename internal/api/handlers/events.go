package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
)

func MakeEventsHandler(container HandlerDependencies) gin.HandlerFunc {
	broker := container.EventBroker()

	return func(c *gin.Context) {
		ch := broker.Subscribe()
		defer broker.Unsubscribe(ch)

		c.Stream(func(w io.Writer) bool {
			if evt, ok := <-ch; ok {
				c.SSEvent("transaction", evt)
				return true
			}
			return false
		})
	}
}
