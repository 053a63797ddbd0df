package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports that the process is serving.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
