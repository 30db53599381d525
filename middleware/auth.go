package middleware

import (
	"net/http"
	"strings"

	"carwash/models"
	"carwash/services/guest"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

const (
	actorKey           = "actor"
	GuestSessionHeader = "X-Guest-Session"
)

// ActorAuthMiddleware resolves the caller into a models.Actor. A bearer token
// wins over a guest session header. When optional is set, anonymous requests pass.
func ActorAuthMiddleware(secret []byte, guests guest.SessionService, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				unauthorized(c, "Missing or invalid Authorization header", "")
				return
			}
			claims, err := utils.ParseActorToken(secret, tokenString)
			if err != nil {
				unauthorized(c, "Invalid token", "")
				return
			}
			actor, ok := actorFromClaims(claims)
			if !ok {
				unauthorized(c, "Unknown role", "")
				return
			}
			c.Set(actorKey, actor)
			c.Next()
			return
		}

		if token := c.GetHeader(GuestSessionHeader); token != "" && guests != nil {
			v := guests.ValidateGuestSession(c.Request.Context(), token)
			switch v.Status {
			case guest.StatusValid:
				actor, _ := v.Actor()
				c.Set(actorKey, actor)
				c.Next()
			case guest.StatusExpired:
				unauthorized(c, "Guest session expired", "GuestSessionExpired")
			default:
				unauthorized(c, "Invalid guest session", "GuestSessionInvalid")
			}
			return
		}

		if optional {
			c.Next()
			return
		}
		unauthorized(c, "Insufficient authorization", "")
	}
}

func unauthorized(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Message: message, Code: code})
}

func actorFromClaims(claims utils.ActorClaims) (models.Actor, bool) {
	switch models.Role(claims.Role) {
	case models.RoleCustomer:
		return models.CustomerActor{UserID: claims.Subject, Phone: utils.NormalizePhone(claims.Phone)}, true
	case models.RoleStaff:
		return models.StaffActor{StaffID: claims.Subject, Email: claims.Email}, true
	case models.RoleManager:
		return models.ManagerActor{ManagerID: claims.Subject}, true
	default:
		return nil, false
	}
}

// ActorFromContext returns the actor set by ActorAuthMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return nil, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
