package transport

import "time"

// Discount types understood by the coupon engine. Other WooCommerce types
// (fixed_product and friends) compute a zero discount.
const (
	DiscountTypePercent   = "percent"
	DiscountTypeFixedCart = "fixed_cart"
)

// ShippingQuote is the fee breakdown for an order.
type ShippingQuote struct {
	Subtotal  float64  `json:"subtotal"`
	WeightKg  float64  `json:"weightKg"`
	BaseFee   float64  `json:"baseFee"`
	Surcharge float64  `json:"surcharge"`
	TotalFee  float64  `json:"totalFee"`
	Rationale []string `json:"rationale"`
}

// CouponRecord is a coupon as fetched from the catalog. Amount stays a string
// because the store API returns it as one.
type CouponRecord struct {
	Code         string     `json:"code"`
	DiscountType string     `json:"discount_type"`
	Amount       string     `json:"amount"`
	DateExpires  *time.Time `json:"date_expires,omitempty"`
}

// CouponQuote is the outcome of validating a coupon against a cart subtotal.
type CouponQuote struct {
	Code           string  `json:"code"`
	Valid          bool    `json:"valid"`
	DiscountAmount float64 `json:"discountAmount"`
	DiscountType   string  `json:"discountType"`
	Message        string  `json:"message"`
}

// CouponRequest is a catalog coupon check as entered on the command line.
type CouponRequest struct {
	Code     string  `json:"code" validate:"required,min=1,max=64"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
}
