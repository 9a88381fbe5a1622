package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"storefront_backend/internal/pricing/transport"
	"storefront_backend/platform/apperr"
)

// Messages attached to coupon quotes.
const (
	MessageApplied       = "coupon applied"
	MessageNotFound      = "coupon not found"
	MessageExpired       = "coupon has expired"
	MessageNotApplicable = "coupon does not apply to this cart"
)

// roundCurrency rounds half away from zero.
func roundCurrency(v float64) float64 {
	return math.Round(v)
}

// computeCouponDiscount returns the raw discount for a coupon type.
func computeCouponDiscount(discountType string, amount, subtotal float64) float64 {
	switch discountType {
	case transport.DiscountTypePercent:
		return roundCurrency(amount / 100 * subtotal)
	case transport.DiscountTypeFixedCart:
		return roundCurrency(amount)
	default:
		return 0
	}
}

func parseAmount(raw string) (float64, *apperr.Error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, apperr.InvalidInput("coupon amount is missing")
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInvalidInput, "coupon amount is not numeric", err)
	}
	if ferr := requireFinite("coupon amount", amount); ferr != nil {
		return 0, ferr
	}
	return amount, nil
}

// ValidateCoupon checks expiry, computes the discount and decides whether the
// coupon applies. The discount is not clamped to the subtotal; see
// ClampDiscount. An expired coupon is rejected before its amount is parsed.
func ValidateCoupon(coupon transport.CouponRecord, subtotal float64, now time.Time) (transport.CouponQuote, error) {
	const op = "coupon.Validate"

	if err := requireFinite("subtotal", subtotal); err != nil {
		return transport.CouponQuote{}, err.WithOp(op)
	}

	quote := transport.CouponQuote{
		Code:         coupon.Code,
		DiscountType: coupon.DiscountType,
	}

	if coupon.DateExpires != nil && now.After(*coupon.DateExpires) {
		quote.Message = MessageExpired
		return quote, nil
	}

	amount, err := parseAmount(coupon.Amount)
	if err != nil {
		return transport.CouponQuote{}, err.WithOp(op).WithDetails(map[string]string{"code": coupon.Code})
	}

	discount := computeCouponDiscount(coupon.DiscountType, amount, subtotal)
	if discount <= 0 {
		quote.Message = MessageNotApplicable
		return quote, nil
	}

	quote.Valid = true
	quote.DiscountAmount = discount
	quote.Message = MessageApplied
	return quote, nil
}

// ClampDiscount caps a quote's discount at the subtotal.
func ClampDiscount(quote transport.CouponQuote, subtotal float64) transport.CouponQuote {
	limit := math.Max(subtotal, 0)
	if quote.DiscountAmount > limit {
		quote.DiscountAmount = limit
	}
	return quote
}
