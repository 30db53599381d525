package handlers

import (
	"net/http"

	"carwash/middleware"
	"carwash/services/guest"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GuestHandler issues and checks anonymous booking sessions.
type GuestHandler struct {
	Sessions guest.SessionService
}

func NewGuestHandler(sessions guest.SessionService) *GuestHandler {
	return &GuestHandler{Sessions: sessions}
}

func (h *GuestHandler) IssueSessionHandler(c *gin.Context) {
	var body struct {
		Phone string `json:"phone" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	session, err := h.Sessions.IssueGuestSession(c.Request.Context(), body.Phone)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	getLogger(c).Info("guest session issued", zap.String("sessionId", session.ID))
	c.JSON(http.StatusCreated, session)
}

// ValidateSessionHandler reports the status of the session in the guest header.
func (h *GuestHandler) ValidateSessionHandler(c *gin.Context) {
	v := h.Sessions.ValidateGuestSession(c.Request.Context(), c.GetHeader(middleware.GuestSessionHeader))
	c.JSON(http.StatusOK, v)
}
