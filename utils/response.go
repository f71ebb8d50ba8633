package utils

import "github.com/gin-gonic/gin"

// ErrorResponse builds the standard error envelope.
func ErrorResponse(message string) gin.H {
	return gin.H{
		"success": false,
		"error":   message,
	}
}

// SuccessResponse builds the standard success envelope.
func SuccessResponse(message string, data interface{}) gin.H {
	return gin.H{
		"success": true,
		"message": message,
		"data":    data,
	}
}
