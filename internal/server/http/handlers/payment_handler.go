package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/etproforma/commerce/internal/server/http/dto"
)

// PaymentHandler manages payment reconciliation and retry endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Callback handles POST /api/payment/callback. The gateway sends tx_ref
// either in the query string or the body; the claimed outcome is ignored
// in favor of a verify round-trip.
func (h *PaymentHandler) Callback(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		var req dto.CallbackRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			txRef = req.TxRef
		}
	}

	result, err := h.facade.ReconcilePayment(c.Request.Context(), txRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CallbackResponse{Status: string(result.Payment.Status)})
}

// Retry handles POST /api/orders/:id/pay.
func (h *PaymentHandler) Retry(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid order id"})
		return
	}

	result, err := h.facade.RetryPayment(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RetryPaymentResponse{
		OrderID:     result.Order.ID,
		CheckoutURL: result.CheckoutURL,
		TxRef:       result.TxRef,
	})
}
