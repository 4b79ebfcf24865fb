package ordering

import (
	"time"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/format"
)

const unknownDocument = "Unknown Document"

// Receipt is the display data of a confirmed order. Amounts are rendered
// from the price frozen at submission.
type Receipt struct {
	OrderNumber      string              `json:"order_number"`
	PaymentReference string              `json:"payment_reference"`
	OrderDate        string              `json:"order_date"`
	FileName         string              `json:"file_name"`
	PageCount        int                 `json:"page_count"`
	PrintColor       string              `json:"print_color"`
	Binding          string              `json:"binding"`
	CampusDelivery   string              `json:"campus_delivery"`
	BaseCost         string              `json:"base_cost"`
	BindingCost      string              `json:"binding_cost"`
	DeliveryCost     string              `json:"delivery_cost"`
	TotalPrice       string              `json:"total_price"`
	Customer         *model.CustomerInfo `json:"customer,omitempty"`
}

func newReceipt(d model.OrderDraft, currency string, now time.Time) Receipt {
	r := Receipt{
		OrderNumber:      d.OrderNumber(),
		PaymentReference: d.PaymentReference(),
		OrderDate:        format.DateTime(now),
		FileName:         d.FileName,
		PageCount:        d.PageCount,
		PrintColor:       format.ColorLabel(d.PrintColorMode),
		Binding:          format.BindingLabel(d.Binding),
		CampusDelivery:   format.YesNo(d.CampusDelivery),
	}
	if r.FileName == "" {
		r.FileName = unknownDocument
	}
	if d.Customer != nil {
		c := *d.Customer
		r.Customer = &c
	}

	var b model.PriceBreakdown
	switch {
	case d.Submission != nil:
		b = d.Submission.Breakdown
		if !d.Submission.SubmittedAt.IsZero() {
			r.OrderDate = format.DateTime(d.Submission.SubmittedAt)
		}
	case d.PriceBreakdown != nil:
		b = *d.PriceBreakdown
	}
	r.BaseCost = format.Currency(b.BaseCost, currency)
	r.BindingCost = format.Currency(b.BindingCost, currency)
	r.DeliveryCost = format.Currency(b.DeliveryCost, currency)
	r.TotalPrice = format.Currency(b.TotalCost, currency)
	return r
}
