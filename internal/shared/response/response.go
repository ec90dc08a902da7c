package response

import "github.com/gin-gonic/gin"

// ErrorBody is the JSON shape for error responses that carry a message.
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationBody carries per-field validation messages.
type ValidationBody struct {
	Errors map[string]string `json:"errors"`
}

// Error writes a JSON error body with the given status.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}

// ValidationErrors writes the field-to-message map with the given status.
func ValidationErrors(c *gin.Context, status int, errs map[string]string) {
	c.JSON(status, ValidationBody{Errors: errs})
}

// Text writes a plain-text body with the given status.
func Text(c *gin.Context, status int, message string) {
	c.String(status, message)
}
