// Package pricing provides the checkout pricing module.
package pricing

import (
	"storefront_backend/internal/pricing/repository"
	"storefront_backend/internal/pricing/service"
	"storefront_backend/platform/config"
	"storefront_backend/platform/logger"
	"storefront_backend/platform/validator"
)

// Module represents the pricing domain module
type Module struct {
	service *service.Service
}

// NewModule loads the coupon catalog and wires the pricing service.
func NewModule(cfg config.PricingConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	catalog, err := repository.LoadJSONCatalog(cfg.GetCouponsPath(), val)
	if err != nil {
		return nil, err
	}
	log.Debug("coupon catalog loaded", "path", cfg.GetCouponsPath(), "coupons", catalog.Len())

	svc := service.New(catalog, service.ShippingRulesFromConfig(cfg), log)
	return &Module{service: svc}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "pricing"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}
