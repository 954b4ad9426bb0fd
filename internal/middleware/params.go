package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// ParseIDParam validates the numeric path parameter name and stores it for
// GetParamID. label names the resource in the error message.
func ParseIDParam(name, label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || id == 0 {
			apierrors.Abort(c, apierrors.New(apierrors.ErrCodeInvalidInput, fmt.Sprintf("Invalid %s ID", label), nil))
			return
		}

		c.Set(constants.ContextKeyParamID, id)
		c.Next()
	}
}

// GetParamID returns the id stored by ParseIDParam
func GetParamID(c *gin.Context) uint64 {
	return c.GetUint64(constants.ContextKeyParamID)
}
