package app

import (
	"strconv"
	"strings"

	"storefront_backend/internal/output"
	"storefront_backend/internal/pricing/service"
	"storefront_backend/internal/pricing/transport"
	"storefront_backend/platform/apperr"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func (a *App) shippingCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "shipping",
		Short: "Quote the shipping fee for a cart",
		Long: `Quote the shipping fee for a cart from its subtotal and weight.

Orders at or above the free shipping threshold ship free; orders heavier
than the weight limit pay a surcharge. Values fall back to the SUBTOTAL and
WEIGHT environment variables.

Examples:
  storefront shipping --subtotal 998.99
  storefront shipping --subtotal 1200 --weight 6.5
  SUBTOTAL=450 WEIGHT=2 storefront shipping --json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtotal, err := numberSetting(v, "subtotal", true)
			if err != nil {
				return err
			}
			weight, err := numberSetting(v, "weight", false)
			if err != nil {
				return err
			}

			// Shipping needs only the configured rates, not the coupon catalog.
			cfg, err := a.config()
			if err != nil {
				return err
			}
			quote, err := service.ShippingRulesFromConfig(cfg).Calculate(subtotal, weight)
			if err != nil {
				return err
			}
			return a.renderShipping(quote)
		},
	}

	cmd.Flags().String("subtotal", "", "Cart subtotal")
	cmd.Flags().String("weight", "0", "Cart weight in kg")
	_ = v.BindPFlag("subtotal", cmd.Flags().Lookup("subtotal"))
	_ = v.BindPFlag("weight", cmd.Flags().Lookup("weight"))
	_ = v.BindEnv("subtotal", "SUBTOTAL")
	_ = v.BindEnv("weight", "WEIGHT")
	return cmd
}

// numberSetting reads a numeric flag or env value. Values are parsed here
// rather than by pflag so bad input maps to an invalid-input exit code.
func numberSetting(v *viper.Viper, key string, required bool) (float64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		if required {
			return 0, apperr.InvalidInput(key + " is required")
		}
		return 0, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInvalidInput, key+" must be a number, got "+strconv.Quote(raw), err)
	}
	return n, nil
}

func (a *App) renderShipping(q transport.ShippingQuote) error {
	if a.flagJSON {
		return output.JSON(a.stdout, q)
	}
	a.println(output.Header("Shipping quote"))
	a.println(output.KeyValue("Subtotal", output.Money(q.Subtotal)))
	a.println(output.KeyValue("Weight", strconv.FormatFloat(q.WeightKg, 'f', 2, 64)+" kg"))
	a.println(output.KeyValue("Base fee", output.Money(q.BaseFee)))
	a.println(output.KeyValue("Surcharge", output.Money(q.Surcharge)))
	a.println(output.KeyValue("Total fee", output.StyleBold.Render(output.Money(q.TotalFee))))
	a.println()
	a.printf("%s", output.Bullets(q.Rationale))
	return nil
}
