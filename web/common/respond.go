package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"worktime.app/worktime/core"
	"worktime.app/worktime/render"
	"worktime.app/worktime/utils"
)

// RespondError maps a domain error onto an HTTP status and writes the error
// envelope. Rendering failures get their own status so callers can retry
// them without re-validating input.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, utils.ErrInvalidDate),
		errors.Is(err, utils.ErrInvalidTime),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidMode),
		errors.Is(err, core.ErrMissingIdentifier):
		status = http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, render.ErrRenderFailed):
		status = http.StatusBadGateway
	}
	c.JSON(status, NewErrorResponse(err.Error()))
}
