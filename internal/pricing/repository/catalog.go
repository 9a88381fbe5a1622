package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"storefront_backend/internal/pricing/transport"
	"storefront_backend/platform/apperr"
	"storefront_backend/platform/validator"
)

// CouponCatalog looks coupons up by code. Implementations return an
// apperr.KindNotFound error when the code is unknown.
type CouponCatalog interface {
	FindByCode(ctx context.Context, code string) (transport.CouponRecord, error)
}

// couponFile is the on-disk shape of a coupon, matching the store export.
type couponFile struct {
	Code         string `json:"code" validate:"required,min=1,max=64"`
	DiscountType string `json:"discount_type" validate:"required"`
	Amount       string `json:"amount" validate:"required"`
	DateExpires  string `json:"date_expires,omitempty"`
}

var expiryLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseExpiry reads a WooCommerce date_expires value. Dates without a zone
// are UTC. An empty value means the coupon never expires.
func ParseExpiry(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised date_expires %q", value)
}

// MemoryCatalog is an in-memory coupon catalog keyed by lower-cased code.
type MemoryCatalog struct {
	coupons map[string]transport.CouponRecord
}

// NewMemoryCatalog creates a catalog from records. Later duplicates win.
func NewMemoryCatalog(records ...transport.CouponRecord) *MemoryCatalog {
	c := &MemoryCatalog{coupons: make(map[string]transport.CouponRecord, len(records))}
	for _, r := range records {
		c.coupons[normalizeCode(r.Code)] = r
	}
	return c
}

// FindByCode returns the coupon for code, ignoring case and surrounding space.
func (c *MemoryCatalog) FindByCode(_ context.Context, code string) (transport.CouponRecord, error) {
	record, ok := c.coupons[normalizeCode(code)]
	if !ok {
		return transport.CouponRecord{}, apperr.NotFound("coupon " + code + " not found").WithOp("catalog.FindByCode")
	}
	return record, nil
}

// Len returns the number of coupons.
func (c *MemoryCatalog) Len() int {
	return len(c.coupons)
}

// LoadJSONCatalog reads a coupon export file. A missing file yields an empty
// catalog.
func LoadJSONCatalog(path string, val *validator.Validator) (*MemoryCatalog, error) {
	const op = "catalog.LoadJSON"

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewMemoryCatalog(), nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "read coupon catalog", err).WithOp(op)
	}

	var rows []couponFile
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "decode coupon catalog", err).WithOp(op)
	}

	records := make([]transport.CouponRecord, 0, len(rows))
	for i, row := range rows {
		if err := val.Struct(row); err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidInput, fmt.Sprintf("coupon %d", i), err).WithOp(op)
		}
		expires, err := ParseExpiry(row.DateExpires)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidInput, "coupon "+row.Code, err).WithOp(op)
		}
		records = append(records, transport.CouponRecord{
			Code:         strings.TrimSpace(row.Code),
			DiscountType: strings.TrimSpace(row.DiscountType),
			Amount:       row.Amount,
			DateExpires:  expires,
		})
	}
	return NewMemoryCatalog(records...), nil
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
