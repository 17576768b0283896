package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bundasehat/screening-backend/internal/platform/apierr"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  any    `json:"result"`
}

type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Details   any    `json:"details,omitempty"`
}

func RespondOK(c *gin.Context, message string, result any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Result: result})
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Message: msg, ErrorCode: code})
}

// RespondAPIError writes err using its apierr status and code. Internal
// errors are recorded on the gin context and answered with a generic message.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := ae.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Message: msg, ErrorCode: ae.Code, Details: ae.Details})
}
