package apperr

import "github.com/gin-gonic/gin"

// JSON writes err as the response body with its mapped status
func JSON(c *gin.Context, err error) {
	status, body := Response(err)
	c.JSON(status, body)
}
