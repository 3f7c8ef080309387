package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tedblog/internal/logging"
	"tedblog/internal/repository"
)

// JSONError writes the standard error body.
func JSONError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps a store error to a status. Anything that is not a
// missing post is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		JSONError(c, http.StatusNotFound, "Post not found")
		return
	}
	logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	JSONError(c, http.StatusInternalServerError, "Internal server error")
}
