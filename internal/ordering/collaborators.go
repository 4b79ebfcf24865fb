package ordering

import (
	"context"
	"io"

	"github.com/guttosm/print-order-service/internal/domain/model"
)

// Pricer computes price breakdowns against a fixed price table.
type Pricer interface {
	ComputeBreakdown(input model.PricingInput) (model.PriceBreakdown, error)
	Table() model.PriceTable
}

// Upload is a document received from the customer.
type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

// DraftSnapshot is what gets submitted as an order. Breakdown and Customer
// are always present.
type DraftSnapshot struct {
	Draft     model.OrderDraft
	Breakdown model.PriceBreakdown
	Customer  model.CustomerInfo
}

func (s DraftSnapshot) sameOrder(o DraftSnapshot) bool {
	return s.Draft.FileID == o.Draft.FileID &&
		s.Draft.PrintColorMode == o.Draft.PrintColorMode &&
		s.Draft.Binding == o.Draft.Binding &&
		s.Draft.CampusDelivery == o.Draft.CampusDelivery &&
		s.Breakdown.Equal(o.Breakdown) &&
		s.Customer == o.Customer
}

// DocumentUploader stores a document and reports its page composition.
type DocumentUploader interface {
	UploadDocument(ctx context.Context, upload Upload) (model.DocumentInfo, error)
}

// PriceConfirmer asks the pricing authority for its breakdown of an input.
type PriceConfirmer interface {
	ConfirmPrice(ctx context.Context, input model.PricingInput) (model.PriceBreakdown, error)
}

// OrderSubmitter turns a reviewed draft into an order awaiting payment.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, snapshot DraftSnapshot) (model.Submission, error)
}

// PaymentChecker reports the state of a payment.
type PaymentChecker interface {
	CheckPaymentStatus(ctx context.Context, reference string) (model.PaymentResult, error)
}

// OrderLookup fetches a submitted order.
type OrderLookup interface {
	GetOrderByNumber(ctx context.Context, orderNumber string) (model.Order, error)
}

// Collaborators groups the external services a Machine uses. Any of them may
// be nil; the operation that needs a missing collaborator fails.
type Collaborators struct {
	Uploader  DocumentUploader
	Confirmer PriceConfirmer
	Submitter OrderSubmitter
	Payments  PaymentChecker
}

// AdminOrders is the order API's back-office surface.
type AdminOrders interface {
	ListOrders(ctx context.Context, limit int) ([]model.Order, error)
	OrderStats(ctx context.Context) (model.OrderStats, error)
	PendingPrints(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error
}
