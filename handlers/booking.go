package handlers

import (
	"net/http"

	"carwash/middleware"
	"carwash/models"
	"carwash/services/booking"
	"carwash/services/guest"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle.
type BookingHandler struct {
	Service booking.BookingService
	Guests  guest.SessionService
}

func NewBookingHandler(svc booking.BookingService, guests guest.SessionService) *BookingHandler {
	return &BookingHandler{Service: svc, Guests: guests}
}

// CreateBookingHandler reserves a slot for the calling customer, guest or staff member.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req models.BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), req, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	getLogger(c).Info("booking created", zap.String("bookingId", b.ID), zap.String("source", string(b.Source)))
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListMyBookings(c.Request.Context(), actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// ListBookingsByDateHandler serves the console's day view.
func (h *BookingHandler) ListBookingsByDateHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	date := c.Query("date")
	bookings, err := h.Service.ListBookingsByDate(c.Request.Context(), date, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "bookings": bookings})
}

func (h *BookingHandler) TransitionBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	target, err := models.ParseBookingStatus(body.Status)
	if err != nil {
		utils.WriteError(c, utils.NewError(utils.ErrInvalidSelection, "%v", err))
		return
	}

	b, err := h.Service.TransitionBooking(c.Request.Context(), c.Param("id"), target, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) EditBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var patch models.BookingPatch
	if !bindJSON(c, &patch) {
		return
	}

	b, err := h.Service.EditBooking(c.Request.Context(), c.Param("id"), patch, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// MigrateGuestBookingsHandler claims the guest bookings made with the customer's phone.
// A guest session header, when present, is revoked afterwards.
func (h *BookingHandler) MigrateGuestBookingsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	customer, ok := actor.(models.CustomerActor)
	if !ok {
		utils.WriteError(c, utils.NewError(utils.ErrForbidden, "only customers can claim guest bookings"))
		return
	}
	if customer.Phone == "" {
		utils.WriteError(c, utils.NewError(utils.ErrInvalidSelection, "the account has no phone number"))
		return
	}

	migrated, err := h.Service.MigrateGuestBookings(c.Request.Context(), customer.UserID, customer.Phone)
	if err != nil {
		utils.WriteError(c, err)
		return
	}

	if token := c.GetHeader(middleware.GuestSessionHeader); token != "" && h.Guests != nil {
		if err := h.Guests.RevokeGuestSession(c.Request.Context(), token); err != nil {
			getLogger(c).Warn("failed to revoke guest session", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"migrated": migrated})
}
