package handlers

import (
	"net/http"

	"carwash/models"
	"carwash/services/admin"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes staff shifts and the staffing report to the console.
type AdminHandler struct {
	Service admin.AdminService
}

func NewAdminHandler(svc admin.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) AddShiftHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var shift models.StaffShift
	if !bindJSON(c, &shift) {
		return
	}
	created, err := h.Service.AddShift(c.Request.Context(), shift, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) RemoveShiftHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.Service.RemoveShift(c.Request.Context(), c.Param("id"), actor); err != nil {
		utils.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListShiftsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	shifts, err := h.Service.ListShifts(c.Request.Context(), c.Query("date"), actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shifts": shifts})
}

func (h *AdminHandler) StaffingReportHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	date := c.Query("date")
	report, err := h.Service.StaffingReport(c.Request.Context(), date, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": report})
}
