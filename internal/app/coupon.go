package app

import (
	"strconv"
	"strings"

	"storefront_backend/internal/output"
	"storefront_backend/internal/pricing/repository"
	"storefront_backend/internal/pricing/service"
	"storefront_backend/internal/pricing/transport"
	"storefront_backend/platform/apperr"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func (a *App) couponCommand() *cobra.Command {
	v := viper.New()
	var (
		code         string
		discountType string
		amount       string
		expires      string
	)

	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "Check a coupon against a cart subtotal",
		Long: `Check a coupon against a cart subtotal.

By default the code is looked up in the coupon catalog (COUPONS_PATH, default
DATA_DIR/coupons.json). Pass --type and --amount to check a coupon that is
not in the catalog.

Examples:
  storefront coupon --code DIWALI10 --subtotal 1000
  storefront coupon --type percent --amount 10 --subtotal 1000
  storefront coupon --type fixed_cart --amount 150 --expires 2025-12-31 --subtotal 800`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtotal, err := numberSetting(v, "subtotal", true)
			if err != nil {
				return err
			}

			var quote transport.CouponQuote
			if discountType != "" {
				record, err := inlineCoupon(code, discountType, amount, expires)
				if err != nil {
					return err
				}
				quote, err = service.ValidateCoupon(record, subtotal, a.now())
				if err != nil {
					return err
				}
				quote = service.ClampDiscount(quote, subtotal)
			} else {
				if _, err := a.config(); err != nil {
					return err
				}
				req := transport.CouponRequest{Code: strings.TrimSpace(code), Subtotal: subtotal}
				if err := a.val.Struct(req); err != nil {
					return apperr.Wrap(apperr.KindInvalidInput, "--code is required unless --type is given (1-64 characters)", err)
				}
				svc, err := a.pricingService()
				if err != nil {
					return err
				}
				quote, err = svc.ApplyCoupon(cmd.Context(), req.Code, req.Subtotal, a.now())
				if err != nil {
					return err
				}
			}
			return a.renderCoupon(quote, subtotal)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Coupon code")
	cmd.Flags().String("subtotal", "", "Cart subtotal")
	cmd.Flags().StringVar(&discountType, "type", "", "Inline coupon type (percent or fixed_cart)")
	cmd.Flags().StringVar(&amount, "amount", "", "Inline coupon amount")
	cmd.Flags().StringVar(&expires, "expires", "", "Inline coupon expiry (RFC 3339 or YYYY-MM-DD)")
	_ = v.BindPFlag("subtotal", cmd.Flags().Lookup("subtotal"))
	_ = v.BindEnv("subtotal", "SUBTOTAL")
	return cmd
}

func inlineCoupon(code, discountType, amount, expires string) (transport.CouponRecord, error) {
	if code == "" {
		code = "INLINE"
	}
	expiry, err := repository.ParseExpiry(expires)
	if err != nil {
		return transport.CouponRecord{}, apperr.Wrap(apperr.KindInvalidInput, "invalid --expires", err)
	}
	return transport.CouponRecord{
		Code:         code,
		DiscountType: discountType,
		Amount:       amount,
		DateExpires:  expiry,
	}, nil
}

func (a *App) renderCoupon(q transport.CouponQuote, subtotal float64) error {
	if a.flagJSON {
		return output.JSON(a.stdout, q)
	}

	verdict := output.StyleError.Render("not applied")
	if q.Valid {
		verdict = output.StyleSuccess.Render("applied")
	}

	a.println(output.Header("Coupon " + strconv.Quote(q.Code)))
	a.println(output.KeyValue("Status", verdict))
	a.println(output.KeyValue("Discount", output.Money(q.DiscountAmount)))
	if q.Valid {
		a.println(output.KeyValue("New subtotal", output.Money(subtotal-q.DiscountAmount)))
	}
	a.println(output.KeyValue("Message", q.Message))
	return nil
}
