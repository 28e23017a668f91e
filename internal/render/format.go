package render

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/billmitra/billmitra/internal/template"
)

// en-IN groups digits in the lakh/crore style (12,34,567.89).
var indianPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatCurrency renders a rupee amount with two fixed decimals and Indian
// thousands separators.
func FormatCurrency(v float64) string {
	return "₹" + indianPrinter.Sprint(number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatNumber renders with two fixed decimals, no grouping.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercentage renders with two decimals and a trailing percent sign.
func FormatPercentage(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// formatCell applies a column format to a cell value. Text format passes
// the raw text through; numeric formats fall back to the raw text when the
// cell has no numeric value (e.g. a product name under a number column).
func formatCell(format template.ColumnFormat, text string, num float64, numeric bool) string {
	if !numeric {
		return text
	}
	switch format {
	case template.FormatCurrency:
		return FormatCurrency(num)
	case template.FormatPercentage:
		return FormatPercentage(num)
	case template.FormatNumber:
		return FormatNumber(num)
	default:
		return text
	}
}
