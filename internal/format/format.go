// Package format renders amounts, dates and order options for display.
package format

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/print-order-service/internal/domain/model"
)

const (
	// DateLayout is the fixed display format for dates.
	DateLayout = "02 Jan 2006"
	// DateTimeLayout is the fixed display format for timestamps.
	DateTimeLayout = "02 Jan 2006 at 15:04"
)

// Amount renders d with exactly two decimal places, rounding half away from zero.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Currency renders d prefixed with a currency code, e.g. "GHC 10.00".
// An empty code falls back to model.DefaultCurrency.
func Currency(d decimal.Decimal, code string) string {
	if code == "" {
		code = model.DefaultCurrency
	}
	return code + " " + Amount(d)
}

// Date renders t as "18 Oct 2026".
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// DateTime renders t as "18 Oct 2026 at 14:05".
func DateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// BindingLabel is the customer-facing name of a binding method.
func BindingLabel(b model.BindingMethod) string {
	switch b {
	case model.BindingNone:
		return "No Binding"
	case model.BindingComb:
		return "Comb Binding"
	case model.BindingSlide:
		return "Slide Binding"
	case model.BindingTape:
		return "Tape Binding"
	default:
		return string(b)
	}
}

// ColorLabel is the customer-facing name of a print color mode.
func ColorLabel(m model.ColorMode) string {
	switch m {
	case model.ColorModeMonochrome:
		return "Monochrome"
	case model.ColorModeColored:
		return "Colored"
	default:
		return string(m)
	}
}

// YesNo renders a flag the way receipts show it.
func YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
