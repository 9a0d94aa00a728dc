package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/server/http/dto"
	"github.com/etproforma/commerce/internal/usecase"
)

// CheckoutHandler manages the checkout endpoint.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "malformed checkout payload"})
		return
	}

	items := make([]usecase.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.CheckoutItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	shipping := model.ShippingInfo{
		FullName: req.Shipping.FullName,
		Email:    req.Shipping.Email,
		Phone:    req.Shipping.Phone,
		Address:  req.Shipping.Address,
		City:     req.Shipping.City,
		Region:   req.Shipping.Region,
		Cost:     req.Shipping.ShippingCost,
	}

	result, err := h.facade.Checkout(c.Request.Context(), actor, items, shipping)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		Order:       toOrderResponse(result.Order),
		CheckoutURL: result.CheckoutURL,
		TxRef:       result.TxRef,
	})
}
