package handlers

import (
	"net/http"

	"carwash/middleware"
	"carwash/models"
	"carwash/services/pricing"
	"carwash/utils"

	"github.com/gin-gonic/gin"
)

// PricingHandler serves the catalog, live quotes, promo codes and referrals.
type PricingHandler struct {
	Service pricing.PricingService
}

func NewPricingHandler(svc pricing.PricingService) *PricingHandler {
	return &PricingHandler{Service: svc}
}

func (h *PricingHandler) GetCatalogHandler(c *gin.Context) {
	ctx := c.Request.Context()
	catalog, err := h.Service.Catalog(ctx)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	addOns, err := h.Service.AddOns(ctx)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": catalog, "addOns": addOns})
}

// QuoteHandler prices a selection. A signed-in customer may ask for their referral grant.
func (h *PricingHandler) QuoteHandler(c *gin.Context) {
	var body struct {
		Selection   models.ServiceSelection `json:"selection"`
		UseReferral bool                    `json:"useReferral"`
	}
	if !bindJSON(c, &body) {
		return
	}
	var opts pricing.QuoteOptions
	if actor, ok := middleware.ActorFromContext(c); ok && body.UseReferral && actor.Role() == models.RoleCustomer {
		opts.ReferralUserID = actor.ActorID()
	}

	quote, err := h.Service.Quote(c.Request.Context(), body.Selection, opts)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *PricingHandler) ValidatePromoHandler(c *gin.Context) {
	var body struct {
		Code      string `json:"code" binding:"required"`
		PackageID string `json:"packageId" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	promo, err := h.Service.ValidatePromoCode(c.Request.Context(), body.Code, body.PackageID)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":          promo.Code,
		"discountType":  promo.DiscountType,
		"discountValue": promo.DiscountValue,
	})
}

func (h *PricingHandler) UpsertAddOnHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var addOn models.AddOn
	if !bindJSON(c, &addOn) {
		return
	}
	if id := c.Param("id"); id != "" {
		addOn.ID = id
	}
	cfg, err := h.Service.UpsertAddOn(c.Request.Context(), addOn, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *PricingHandler) SetAddOnEnabledHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	cfg, err := h.Service.SetAddOnEnabled(c.Request.Context(), c.Param("id"), *body.Enabled, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *PricingHandler) SetPackageAvailabilityHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body struct {
		Available *bool `json:"available" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	catalog, err := h.Service.SetPackageAvailability(c.Request.Context(), c.Param("id"), *body.Available, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *PricingHandler) ListPromosHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	promos, err := h.Service.ListPromos(c.Request.Context(), actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"promos": promos})
}

func (h *PricingHandler) CreatePromoHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var promo models.PromoCode
	if !bindJSON(c, &promo) {
		return
	}
	created, err := h.Service.CreatePromo(c.Request.Context(), promo, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PricingHandler) UpdatePromoHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var promo models.PromoCode
	if !bindJSON(c, &promo) {
		return
	}
	promo.Code = c.Param("code")
	updated, err := h.Service.UpdatePromo(c.Request.Context(), promo, actor)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PricingHandler) SetPromoActiveHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	if err := h.Service.SetPromoActive(c.Request.Context(), c.Param("code"), *body.Active, actor); err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": c.Param("code"), "active": *body.Active})
}

func (h *PricingHandler) DeletePromoHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.Service.DeletePromo(c.Request.Context(), c.Param("code"), actor); err != nil {
		utils.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PricingHandler) GetMyReferralHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	credit, err := h.Service.GetOrCreateReferral(c.Request.Context(), actor.ActorID())
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, credit)
}

func (h *PricingHandler) ApplyReferralHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}
	credit, err := h.Service.ApplyReferralCode(c.Request.Context(), actor.ActorID(), body.Code)
	if err != nil {
		utils.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, credit)
}
