package service

import (
	"fmt"
	"math"

	"storefront_backend/internal/pricing/transport"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/config"
)

// ShippingRules holds the two independent shipping thresholds.
type ShippingRules struct {
	FreeShippingThreshold float64
	FlatRate              float64
	HeavyWeightKg         float64
	HeavySurcharge        float64
}

// DefaultShippingRules returns the storefront's standard rates.
func DefaultShippingRules() ShippingRules {
	return ShippingRules{
		FreeShippingThreshold: 999,
		FlatRate:              79,
		HeavyWeightKg:         5,
		HeavySurcharge:        29,
	}
}

// ShippingRulesFromConfig reads the rates from configuration.
func ShippingRulesFromConfig(cfg config.PricingConfig) ShippingRules {
	return ShippingRules{
		FreeShippingThreshold: cfg.GetFreeShippingThreshold(),
		FlatRate:              cfg.GetShippingFlatRate(),
		HeavyWeightKg:         cfg.GetHeavyWeightKg(),
		HeavySurcharge:        cfg.GetHeavyOrderSurcharge(),
	}
}

// CalculateShipping computes the fee with the default rates.
func CalculateShipping(subtotal, weightKg float64) (transport.ShippingQuote, error) {
	return DefaultShippingRules().Calculate(subtotal, weightKg)
}

// Calculate applies the free-shipping and heavy-order rules. They are
// independent: a free-shipping order can still pay the surcharge.
func (r ShippingRules) Calculate(subtotal, weightKg float64) (transport.ShippingQuote, error) {
	if err := requireNonNegative("subtotal", subtotal); err != nil {
		return transport.ShippingQuote{}, err.WithOp("shipping.Calculate")
	}
	if err := requireNonNegative("weight", weightKg); err != nil {
		return transport.ShippingQuote{}, err.WithOp("shipping.Calculate")
	}

	quote := transport.ShippingQuote{
		Subtotal:  subtotal,
		WeightKg:  weightKg,
		Rationale: make([]string, 0, 2),
	}

	if subtotal >= r.FreeShippingThreshold {
		quote.BaseFee = 0
		quote.Rationale = append(quote.Rationale, fmt.Sprintf(
			"subtotal %.2f reaches the free shipping threshold of %.2f: base fee 0.00",
			subtotal, r.FreeShippingThreshold))
	} else {
		quote.BaseFee = r.FlatRate
		quote.Rationale = append(quote.Rationale, fmt.Sprintf(
			"subtotal %.2f is below the free shipping threshold of %.2f: flat rate %.2f",
			subtotal, r.FreeShippingThreshold, r.FlatRate))
	}

	if weightKg > r.HeavyWeightKg {
		quote.Surcharge = r.HeavySurcharge
		quote.Rationale = append(quote.Rationale, fmt.Sprintf(
			"weight %.2f kg exceeds %.2f kg: heavy-order surcharge %.2f",
			weightKg, r.HeavyWeightKg, r.HeavySurcharge))
	} else {
		quote.Surcharge = 0
		quote.Rationale = append(quote.Rationale, fmt.Sprintf(
			"weight %.2f kg is within %.2f kg: no surcharge",
			weightKg, r.HeavyWeightKg))
	}

	quote.TotalFee = quote.BaseFee + quote.Surcharge
	return quote, nil
}

func requireFinite(name string, v float64) *apperr.Error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperr.InvalidInput(name + " must be a finite number")
	}
	return nil
}

func requireNonNegative(name string, v float64) *apperr.Error {
	if err := requireFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return apperr.InvalidInput(name + " must not be negative")
	}
	return nil
}
