package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
)

// ValidateItems checks the raw checkout item list before any lookup.
func ValidateItems(items []CheckoutItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one item is required", domainErrors.ErrInvalidInput)
	}
	for _, it := range items {
		if it.ProductID <= 0 {
			return fmt.Errorf("%w: product id is required", domainErrors.ErrInvalidInput)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", domainErrors.ErrInvalidInput)
		}
	}
	return nil
}

// ValidateShipping checks the destination snapshot provided at checkout.
func ValidateShipping(shipping model.ShippingInfo) error {
	required := map[string]string{
		"full name": shipping.FullName,
		"phone":     shipping.Phone,
		"address":   shipping.Address,
		"city":      shipping.City,
		"region":    shipping.Region,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: shipping %s is required", domainErrors.ErrInvalidInput, field)
		}
	}
	if _, err := mail.ParseAddress(shipping.Email); err != nil {
		return fmt.Errorf("%w: shipping email is invalid", domainErrors.ErrInvalidInput)
	}
	if shipping.Cost.IsNegative() {
		return fmt.Errorf("%w: shipping cost must not be negative", domainErrors.ErrInvalidInput)
	}
	return nil
}
