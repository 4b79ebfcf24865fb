package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/metrics"
)

// PriceCalculator defines the interface for pricing operations.
type PriceCalculator interface {
	ComputeBreakdown(input model.PricingInput) (model.PriceBreakdown, error)
	Table() model.PriceTable
}

// PriceCalculatorOption configures a PriceCalculatorService.
type PriceCalculatorOption func(*PriceCalculatorService)

// PriceCalculatorService prices orders against a fixed PriceTable.
// It holds no mutable state, so one instance may be shared by every session
// that was priced against the same table.
type PriceCalculatorService struct {
	table   model.PriceTable
	metrics bool
}

// NewPriceCalculator creates a calculator for the given table. An invalid
// table is a configuration error.
func NewPriceCalculator(table model.PriceTable, opts ...PriceCalculatorOption) (*PriceCalculatorService, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	s := &PriceCalculatorService{
		table:   table.Clone(),
		metrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WithoutMetrics disables Prometheus recording, for callers such as
// benchmarks that compute prices in a tight loop.
func WithoutMetrics() PriceCalculatorOption {
	return func(s *PriceCalculatorService) {
		s.metrics = false
	}
}

// Table returns a copy of the table this calculator prices against.
func (s *PriceCalculatorService) Table() model.PriceTable {
	return s.table.Clone()
}

// ComputeBreakdown prices the input. Negative page counts are validation
// errors; unknown color modes, bindings and compositions are configuration
// errors.
func (s *PriceCalculatorService) ComputeBreakdown(input model.PricingInput) (model.PriceBreakdown, error) {
	start := time.Now()
	kind := "unknown"
	if input.Pages != nil {
		kind = input.Pages.Kind()
	}

	breakdown, err := s.compute(input)

	if s.metrics {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordPriceComputation(time.Since(start), kind, status)
	}
	return breakdown, err
}

func (s *PriceCalculatorService) compute(input model.PricingInput) (model.PriceBreakdown, error) {
	base, err := s.baseCost(input.Pages)
	if err != nil {
		return model.PriceBreakdown{}, err
	}

	binding, err := s.BindingRate(input.Binding)
	if err != nil {
		return model.PriceBreakdown{}, err
	}

	delivery := decimal.Zero
	if input.CampusDelivery {
		delivery = s.table.DeliveryRate
	}

	return model.NewPriceBreakdown(base, binding, delivery), nil
}

func (s *PriceCalculatorService) baseCost(pages model.PageComposition) (decimal.Decimal, error) {
	switch p := pages.(type) {
	case model.UniformPages:
		if p.PageCount < 0 {
			return decimal.Zero, model.NewValidationError("page_count", "must not be negative")
		}
		rate, err := s.RatePerPage(p.Mode)
		if err != nil {
			return decimal.Zero, err
		}
		return rate.Mul(decimal.NewFromInt(int64(p.PageCount))), nil

	case model.SplitPages:
		if p.ColorPages < 0 {
			return decimal.Zero, model.NewValidationError("color_pages", "must not be negative")
		}
		if p.MonochromePages < 0 {
			return decimal.Zero, model.NewValidationError("monochrome_pages", "must not be negative")
		}
		color := s.table.ColoredRate.Mul(decimal.NewFromInt(int64(p.ColorPages)))
		mono := s.table.MonochromeRate.Mul(decimal.NewFromInt(int64(p.MonochromePages)))
		return color.Add(mono), nil

	default:
		return decimal.Zero, fmt.Errorf("%w: %T", model.ErrUnknownComposition, pages)
	}
}

// RatePerPage returns the per-page rate for a color mode.
func (s *PriceCalculatorService) RatePerPage(mode model.ColorMode) (decimal.Decimal, error) {
	switch mode {
	case model.ColorModeMonochrome:
		return s.table.MonochromeRate, nil
	case model.ColorModeColored:
		return s.table.ColoredRate, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrUnknownColorMode, mode)
	}
}

// BindingRate returns the flat cost of a binding method.
func (s *PriceCalculatorService) BindingRate(method model.BindingMethod) (decimal.Decimal, error) {
	switch method {
	case model.BindingNone, model.BindingComb, model.BindingSlide, model.BindingTape:
		rate, ok := s.table.BindingRates[method]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: no rate for %q", model.ErrInvalidPriceTable, method)
		}
		return rate, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", model.ErrUnknownBinding, method)
	}
}

// DeliveryRate returns the flat campus delivery fee.
func (s *PriceCalculatorService) DeliveryRate() decimal.Decimal {
	return s.table.DeliveryRate
}
