// Package model defines the core domain entities for the print order service.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ColorMode selects how pages are printed when the per-page split is not used.
type ColorMode string

const (
	// ColorModeMonochrome prints every page in black and white.
	ColorModeMonochrome ColorMode = "monochrome"
	// ColorModeColored prints pages in color.
	ColorModeColored ColorMode = "colored"
)

// ParseColorMode converts a raw value into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorModeMonochrome:
		return ColorModeMonochrome, nil
	case ColorModeColored:
		return ColorModeColored, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColorMode, s)
	}
}

// BindingMethod is the physical finishing applied to the printed document.
type BindingMethod string

const (
	BindingNone  BindingMethod = "none"
	BindingComb  BindingMethod = "comb"
	BindingSlide BindingMethod = "slide"
	BindingTape  BindingMethod = "tape"
)

// BindingMethods lists every supported binding method.
var BindingMethods = []BindingMethod{BindingNone, BindingComb, BindingSlide, BindingTape}

// ParseBindingMethod converts a raw value into a BindingMethod.
func ParseBindingMethod(s string) (BindingMethod, error) {
	switch BindingMethod(strings.ToLower(strings.TrimSpace(s))) {
	case BindingNone:
		return BindingNone, nil
	case BindingComb:
		return BindingComb, nil
	case BindingSlide:
		return BindingSlide, nil
	case BindingTape:
		return BindingTape, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBinding, s)
	}
}

// DefaultCurrency is the currency code prefixed to every displayed amount.
const DefaultCurrency = "GHC"

// PriceTable is the immutable rate configuration used to price an order.
//
// @Description Rates used to price print orders
type PriceTable struct {
	Version        int                               `json:"version" example:"1"`
	Currency       string                            `json:"currency" example:"GHC"`
	MonochromeRate decimal.Decimal                   `json:"monochrome_rate" swaggertype:"string" example:"1"`
	ColoredRate    decimal.Decimal                   `json:"colored_rate" swaggertype:"string" example:"2"`
	BindingRates   map[BindingMethod]decimal.Decimal `json:"binding_rates" swaggertype:"object"`
	DeliveryRate   decimal.Decimal                   `json:"delivery_rate" swaggertype:"string" example:"2"`
} // @name PriceTable

// DefaultPriceTable returns the campus print shop's standard rates.
func DefaultPriceTable() PriceTable {
	return PriceTable{
		Version:        1,
		Currency:       DefaultCurrency,
		MonochromeRate: decimal.NewFromInt(1),
		ColoredRate:    decimal.NewFromInt(2),
		BindingRates: map[BindingMethod]decimal.Decimal{
			BindingNone:  decimal.Zero,
			BindingComb:  decimal.NewFromInt(5),
			BindingSlide: decimal.NewFromInt(7),
			BindingTape:  decimal.NewFromInt(3),
		},
		DeliveryRate: decimal.NewFromInt(2),
	}
}

// Validate checks that every rate is present and non-negative and that
// choosing no binding is free.
func (t PriceTable) Validate() error {
	if t.MonochromeRate.IsNegative() {
		return fmt.Errorf("%w: monochrome rate is negative", ErrInvalidPriceTable)
	}
	if t.ColoredRate.IsNegative() {
		return fmt.Errorf("%w: colored rate is negative", ErrInvalidPriceTable)
	}
	if t.DeliveryRate.IsNegative() {
		return fmt.Errorf("%w: delivery rate is negative", ErrInvalidPriceTable)
	}
	for _, method := range BindingMethods {
		rate, ok := t.BindingRates[method]
		if !ok {
			return fmt.Errorf("%w: missing rate for binding %q", ErrInvalidPriceTable, method)
		}
		if rate.IsNegative() {
			return fmt.Errorf("%w: rate for binding %q is negative", ErrInvalidPriceTable, method)
		}
	}
	if !t.BindingRates[BindingNone].IsZero() {
		return fmt.Errorf("%w: binding %q must be free", ErrInvalidPriceTable, BindingNone)
	}
	for method := range t.BindingRates {
		if _, err := ParseBindingMethod(string(method)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPriceTable, err)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a shared table.
func (t PriceTable) Clone() PriceTable {
	out := t
	out.BindingRates = make(map[BindingMethod]decimal.Decimal, len(t.BindingRates))
	for k, v := range t.BindingRates {
		out.BindingRates[k] = v
	}
	return out
}

// PageComposition describes how a document's pages are priced. It is a closed
// set: UniformPages and SplitPages are the only implementations.
type PageComposition interface {
	isPageComposition()
	// Kind names the variant for logs and metrics.
	Kind() string
}

// UniformPages prices every page at the rate of a single color mode.
type UniformPages struct {
	PageCount int
	Mode      ColorMode
}

func (UniformPages) isPageComposition() {}

// Kind implements PageComposition.
func (UniformPages) Kind() string { return "uniform" }

// SplitPages prices color and monochrome pages at their own rates.
type SplitPages struct {
	ColorPages      int
	MonochromePages int
}

func (SplitPages) isPageComposition() {}

// Kind implements PageComposition.
func (SplitPages) Kind() string { return "split" }

// PricingInput is everything the calculator needs to price an order.
type PricingInput struct {
	Pages          PageComposition
	Binding        BindingMethod
	CampusDelivery bool
}

// PriceBreakdown itemizes the cost of an order. Amounts keep full precision;
// rounding happens only when they are displayed or submitted.
//
// @Description Itemized order price
type PriceBreakdown struct {
	BaseCost     decimal.Decimal `json:"base_cost" swaggertype:"string" example:"13"`
	BindingCost  decimal.Decimal `json:"binding_cost" swaggertype:"string" example:"5"`
	DeliveryCost decimal.Decimal `json:"delivery_cost" swaggertype:"string" example:"2"`
	TotalCost    decimal.Decimal `json:"total_cost" swaggertype:"string" example:"20"`
} // @name PriceBreakdown

// NewPriceBreakdown builds a breakdown whose total is always the exact sum of
// its components.
func NewPriceBreakdown(base, binding, delivery decimal.Decimal) PriceBreakdown {
	return PriceBreakdown{
		BaseCost:     base,
		BindingCost:  binding,
		DeliveryCost: delivery,
		TotalCost:    base.Add(binding).Add(delivery),
	}
}

// Equal reports whether two breakdowns carry the same amounts.
func (b PriceBreakdown) Equal(other PriceBreakdown) bool {
	return b.BaseCost.Equal(other.BaseCost) &&
		b.BindingCost.Equal(other.BindingCost) &&
		b.DeliveryCost.Equal(other.DeliveryCost) &&
		b.TotalCost.Equal(other.TotalCost)
}

// SubmissionTotal is the total rounded to minor-unit precision, as sent to the
// order API.
func (b PriceBreakdown) SubmissionTotal() decimal.Decimal {
	return b.TotalCost.Round(2)
}

// PriceTableRecord is a stored version of the price table.
//
// @Description Stored price table version
type PriceTableRecord struct {
	ID        string     `json:"id" example:"6710c3e2f1a4b2c3d4e5f601"`
	Table     PriceTable `json:"table"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	CreatedBy string     `json:"created_by,omitempty"`
} // @name PriceTableRecord
