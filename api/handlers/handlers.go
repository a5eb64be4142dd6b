package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crosspost/errs"
)

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsValidation(err), errs.IsUnsupportedPlatform(err), errs.IsProviderUnavailable(err):
		status = http.StatusBadRequest
	case errs.IsAuthorization(err):
		status = http.StatusUnauthorized
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsExternal(err):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// parseTimeQuery accepts RFC3339 or plain dates; nil when absent.
func parseTimeQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errs.Validation("invalid %s: %s", key, raw)
	}
	return &t, nil
}
