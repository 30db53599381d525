package middleware

import (
	"net/http"

	"carwash/models"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose actor role is not listed. It must run after ActorAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			unauthorized(c, "Insufficient authorization", "")
			return
		}
		for _, r := range roles {
			if actor.Role() == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorResponse{
			Message: "Access denied for role " + string(actor.Role()),
			Code:    utils.ErrForbidden.Code,
		})
	}
}
