package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// CronAuth guards the internal cron endpoints with a shared bearer secret.
// The comparison is constant time so the secret cannot be probed byte by byte.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			// Misconfigured deployments fail closed.
			response.Error(c, errors.ErrCronSecretInvalid)
			c.Abort()
			return
		}

		authz := c.GetHeader("Authorization")
		if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
			response.Error(c, errors.ErrCronSecretInvalid)
			c.Abort()
			return
		}

		presented := strings.TrimSpace(authz[7:])
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			response.Error(c, errors.ErrCronSecretInvalid)
			c.Abort()
			return
		}

		c.Next()
	}
}
