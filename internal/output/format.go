package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every monetary amount.
const CurrencySymbol = "₹"

var printer = message.NewPrinter(language.English)

// Money formats an amount with two decimals and digit grouping.
func Money(v float64) string {
	if v < 0 {
		return "-" + CurrencySymbol + printer.Sprintf("%.2f", -v)
	}
	return CurrencySymbol + printer.Sprintf("%.2f", v)
}

// Number formats an integer with digit grouping.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Header renders a section title.
func Header(title string) string {
	return StyleHeader.Render(title)
}

// KeyValue renders an aligned label and value.
func KeyValue(label, value string) string {
	return "  " + StyleLabel.Render(label) + value
}

// Bullets renders each line as a muted bullet.
func Bullets(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString("  ")
		sb.WriteString(StyleMuted.Render("• " + line))
		sb.WriteString("\n")
	}
	return sb.String()
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
