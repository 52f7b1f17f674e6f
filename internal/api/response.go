package api

import (
	"net/http"

	apperrors "github.com/ajharbinger/poolvest-insights/internal/errors"
	"github.com/gin-gonic/gin"
)

// envelope is the body of every /api/v1/ai response
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// respondError maps err onto its status code. Server-side failures are
// attached to the context so the access log records the cause.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, envelope{Success: false, Error: apperrors.PublicMessage(err)})
}
