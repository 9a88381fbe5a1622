// Package service holds the checkout pricing rules: shipping fees and coupon
// discounts. The rule functions are pure; Service adds the catalog lookup.
package service

import (
	"context"
	"time"

	"storefront_backend/internal/pricing/repository"
	"storefront_backend/internal/pricing/transport"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/logger"
)

// Service prices carts using configured shipping rules and a coupon catalog.
type Service struct {
	catalog  repository.CouponCatalog
	shipping ShippingRules
	log      *logger.Logger
}

// New creates a pricing service.
func New(catalog repository.CouponCatalog, shipping ShippingRules, log *logger.Logger) *Service {
	if catalog == nil {
		catalog = repository.NewMemoryCatalog()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{catalog: catalog, shipping: shipping, log: log}
}

// ShippingRules returns the rates in use.
func (s *Service) ShippingRules() ShippingRules {
	return s.shipping
}

// QuoteShipping prices shipping for an order.
func (s *Service) QuoteShipping(subtotal, weightKg float64) (transport.ShippingQuote, error) {
	return s.shipping.Calculate(subtotal, weightKg)
}

// ApplyCoupon looks code up and validates it against subtotal. Unknown codes
// produce an invalid quote rather than an error. The returned discount is
// clamped to the subtotal.
func (s *Service) ApplyCoupon(ctx context.Context, code string, subtotal float64, now time.Time) (transport.CouponQuote, error) {
	record, err := s.catalog.FindByCode(ctx, code)
	if apperr.Is(err, apperr.KindNotFound) {
		s.log.WithContext(ctx).Debug("coupon lookup missed", "code", code)
		return transport.CouponQuote{Code: code, Message: MessageNotFound}, nil
	}
	if err != nil {
		return transport.CouponQuote{}, err
	}

	quote, err := ValidateCoupon(record, subtotal, now)
	if err != nil {
		s.log.WithContext(ctx).Warn("coupon rejected", "code", code, "error", err)
		return transport.CouponQuote{}, err
	}
	return ClampDiscount(quote, subtotal), nil
}
