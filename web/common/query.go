package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryUserID reads the mandatory userId query parameter. Writes the 400
// response itself so handlers can just bail on !ok.
func QueryUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("userId"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse("userId is required"))
		return 0, false
	}
	return uint(id), true
}
