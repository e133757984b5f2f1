package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/rosterhq/workforce-api/pkg/errors"
)

// JSON sends a success payload as-is. The scheduling clients depend on the
// exact top-level shape of each endpoint, so no envelope is added.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Accepted responds with HTTP 202 for queued work.
func Accepted(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusAccepted, payload)
}

// Error sends the legacy error contract: a status code derived from the error
// kind and a body of {"error": "<message>"}.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
