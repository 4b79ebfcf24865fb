package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderDraft_PricingInput(t *testing.T) {
	tests := []struct {
		name     string
		draft    OrderDraft
		expected PageComposition
	}{
		{
			name: "monochrome prints every page black and white",
			draft: OrderDraft{
				PageCount: 10, ColorPageCount: 3, MonochromePageCount: 7,
				PrintColorMode: ColorModeMonochrome,
			},
			expected: UniformPages{PageCount: 10, Mode: ColorModeMonochrome},
		},
		{
			name: "colored with tracked split prices per page",
			draft: OrderDraft{
				PageCount: 10, ColorPageCount: 3, MonochromePageCount: 7,
				PrintColorMode: ColorModeColored,
			},
			expected: SplitPages{ColorPages: 3, MonochromePages: 7},
		},
		{
			name: "colored without split prices every page as color",
			draft: OrderDraft{
				PageCount: 4, PrintColorMode: ColorModeColored,
			},
			expected: UniformPages{PageCount: 4, Mode: ColorModeColored},
		},
		{
			name: "inconsistent split falls back to uniform",
			draft: OrderDraft{
				PageCount: 10, ColorPageCount: 2, MonochromePageCount: 2,
				PrintColorMode: ColorModeColored,
			},
			expected: UniformPages{PageCount: 10, Mode: ColorModeColored},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.draft.Binding = BindingTape
			tt.draft.CampusDelivery = true

			input := tt.draft.PricingInput()

			assert.Equal(t, tt.expected, input.Pages)
			assert.Equal(t, BindingTape, input.Binding)
			assert.True(t, input.CampusDelivery)
		})
	}
}

func TestOrderDraft_ApplyDocument(t *testing.T) {
	t.Run("keeps consistent split", func(t *testing.T) {
		d := NewOrderDraft()
		d.ApplyDocument(DocumentInfo{FileID: "f1", FileName: "a.pdf", PageCount: 5, ColorPages: 2, MonochromePages: 3, SizeBytes: 1024})

		assert.True(t, d.HasDocument())
		assert.True(t, d.SplitTracked())
		assert.Equal(t, 2, d.ColorPageCount)
		assert.Equal(t, int64(1024), d.SizeBytes)
	})

	t.Run("drops split that does not add up", func(t *testing.T) {
		d := NewOrderDraft()
		d.ApplyDocument(DocumentInfo{FileID: "f1", PageCount: 5, ColorPages: 4, MonochromePages: 4})

		assert.False(t, d.SplitTracked())
		assert.Zero(t, d.ColorPageCount)
		assert.Zero(t, d.MonochromePageCount)
	})
}

func TestOrderDraft_SubmissionAccessors(t *testing.T) {
	d := NewOrderDraft()
	assert.Empty(t, d.OrderNumber())
	assert.Empty(t, d.PaymentReference())

	d.Submission = &Submission{OrderNumber: "PRN-1", PaymentReference: "ref-1"}
	assert.Equal(t, "PRN-1", d.OrderNumber())
	assert.Equal(t, "ref-1", d.PaymentReference())
}

func TestOrderDraft_Clone(t *testing.T) {
	b := NewPriceBreakdown(decimal.NewFromInt(10), decimal.Zero, decimal.Zero)
	d := NewOrderDraft()
	d.PriceBreakdown = &b
	d.Customer = &CustomerInfo{Name: "Ama"}
	d.Submission = &Submission{OrderNumber: "PRN-1"}

	c := d.Clone()
	c.PriceBreakdown.TotalCost = decimal.NewFromInt(99)
	c.Customer.Name = "Kofi"
	c.Submission.OrderNumber = "PRN-2"

	assert.True(t, d.PriceBreakdown.TotalCost.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Ama", d.Customer.Name)
	assert.Equal(t, "PRN-1", d.Submission.OrderNumber)
}

func TestNewOrderDraft_Defaults(t *testing.T) {
	d := NewOrderDraft()
	assert.Equal(t, ColorModeMonochrome, d.PrintColorMode)
	assert.Equal(t, BindingNone, d.Binding)
	assert.Nil(t, d.PriceBreakdown)
	assert.False(t, d.HasDocument())
}
