package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/server/http/dto"
	"github.com/etproforma/commerce/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

// respondError maps domain errors to HTTP statuses with a uniform body.
func respondError(c *gin.Context, err error) {
	var gwErr *domainErrors.GatewayError
	switch {
	case errors.Is(err, domainErrors.ErrInvalidInput),
		errors.Is(err, domainErrors.ErrInsufficientStock),
		errors.Is(err, domainErrors.ErrMixedSupplierOrder),
		errors.Is(err, domainErrors.ErrUnknownTransaction),
		errors.Is(err, domainErrors.ErrOrderNotPending):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domainErrors.ErrStatusConflict):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.As(err, &gwErr):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: gwErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "internal error"})
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return dto.OrderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		SupplierID:   order.SupplierID,
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		ShippingCost: order.ShippingCost,
		Total:        order.Total,
		Status:       string(order.Status),
		Items:        items,
		CreatedAt:    order.CreatedAt,
	}
}
