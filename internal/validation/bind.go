package validation

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ErrInvalidBody wraps any failure to decode a JSON request body.
var ErrInvalidBody = errors.New("invalid request body")

// BindJSON decodes the JSON body into out. Field rules are checked later by the
// service, after inputs are normalized, so only decoding happens here.
func BindJSON(c *gin.Context, out interface{}) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}
