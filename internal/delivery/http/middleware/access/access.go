package http_access_middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviematch/internal/delivery/http/common"
)

const ModeReadOnly = "RO"

// ReadOnly lets only safe methods through when the instance runs in RO mode.
func ReadOnly(mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mode != ModeReadOnly {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.JSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "write operations are not allowed on a read-only instance",
		})
		c.Abort()
	}
}
