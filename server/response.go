package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/dirge/errors"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Dependency string `json:"dependency,omitempty"`
	State      string `json:"state,omitempty"`
	RequestID  string `json:"requestId,omitempty"`
}

// RespondWithError derives status and body from the first AppError in
// err's chain; anything else becomes a 500 INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr := apperrors.Wrap(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondOKWithMeta sends a 200 response with data and metadata.
func RespondOKWithMeta(c *gin.Context, data any, meta *Meta) {
	c.JSON(http.StatusOK, DataResponse{Data: data, Meta: meta})
}
