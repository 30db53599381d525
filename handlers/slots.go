package handlers

import (
	"net/http"

	"carwash/services/availability"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// SlotsHandler serves slot availability and the closed-slot configuration.
type SlotsHandler struct {
	Service availability.AvailabilityService
}

func NewSlotsHandler(svc availability.AvailabilityService) *SlotsHandler {
	return &SlotsHandler{Service: svc}
}

func (h *SlotsHandler) GetAvailableSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	slots, err := h.Service.GetAvailableSlots(c.Request.Context(), date)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// GetSlotCatalogHandler lists every bookable hour regardless of date.
func (h *SlotsHandler) GetSlotCatalogHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": availability.SlotCatalog()})
}

func (h *SlotsHandler) GetClosedSlotsHandler(c *gin.Context) {
	cfg, err := h.Service.GetClosedSlots(c.Request.Context(), c.Param("date"))
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *SlotsHandler) SetClosedSlotsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body struct {
		Slots []string `json:"slots"`
	}
	if !bindJSON(c, &body) {
		return
	}
	cfg, err := h.Service.SetClosedSlots(c.Request.Context(), c.Param("date"), body.Slots, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *SlotsHandler) OpenAllSlotsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	cfg, err := h.Service.OpenAllSlots(c.Request.Context(), c.Param("date"), actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *SlotsHandler) CloseAllSlotsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	cfg, err := h.Service.CloseAllSlots(c.Request.Context(), c.Param("date"), actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
