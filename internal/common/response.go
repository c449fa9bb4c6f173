package common

import "github.com/gin-gonic/gin"

// Fail writes the error body shape shared by every endpoint.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
