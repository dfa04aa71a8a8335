package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ledger-core/internal/pages"
	"ledger-core/internal/pkg/apierr"

	"github.com/gin-gonic/gin"
)

// pageAPIErr maps pages.ErrNotFound to 404 and everything else to a plain
// validation error, the way the page tree's own flat error model expects.
func pageAPIErr(err error) apierr.APIError {
	apiErr := apierr.NewValidationError(err.Error())
	if errors.Is(err, pages.ErrNotFound) {
		apiErr.Status = http.StatusNotFound
	}
	return apiErr
}

func MakeCreatePageHandler(container HandlerDependencies) gin.HandlerFunc {
	svc := container.Pages()

	return func(c *gin.Context) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			ParentID    *int64 `json:"parent_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			apiErr := apierr.NewValidationError("title is required")
			c.JSON(apiErr.Status, apiErr)
			return
		}

		page, err := svc.Create(c.Request.Context(), req.Title, req.Description, req.ParentID)
		if err != nil {
			apiErr := pageAPIErr(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusCreated, page)
	}
}

func MakeGetPageHandler(container HandlerDependencies) gin.HandlerFunc {
	svc := container.Pages()

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			apiErr := apierr.NewValidationError("invalid page id")
			c.JSON(apiErr.Status, apiErr)
			return
		}
		page, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			apiErr := pageAPIErr(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func MakeUpdatePageHandler(container HandlerDependencies) gin.HandlerFunc {
	svc := container.Pages()

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			apiErr := apierr.NewValidationError("invalid page id")
			c.JSON(apiErr.Status, apiErr)
			return
		}
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			apiErr := apierr.NewValidationError("invalid request body")
			c.JSON(apiErr.Status, apiErr)
			return
		}
		if err := svc.Update(c.Request.Context(), id, req.Title, req.Description); err != nil {
			apiErr := pageAPIErr(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "updated": true})
	}
}

func MakeDeletePageHandler(container HandlerDependencies) gin.HandlerFunc {
	svc := container.Pages()

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			apiErr := apierr.NewValidationError("invalid page id")
			c.JSON(apiErr.Status, apiErr)
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			apiErr := pageAPIErr(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
	}
}

func MakeChildrenHandler(container HandlerDependencies) gin.HandlerFunc {
	svc := container.Pages()

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			apiErr := apierr.NewValidationError("invalid page id")
			c.JSON(apiErr.Status, apiErr)
			return
		}
		children, err := svc.Children(c.Request.Context(), id)
		if err != nil {
			apiErr := pageAPIErr(err)
			c.JSON(apiErr.Status, apiErr)
			return
		}
		c.JSON(http.StatusOK, children)
	}
}
