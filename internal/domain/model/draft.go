package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerInfo identifies the student placing the order.
//
// @Description Customer contact details
type CustomerInfo struct {
	Name   string `json:"name" bson:"name" validate:"required" example:"Ama Mensah"`
	Email  string `json:"email" bson:"email" validate:"required,basic_email" example:"ama@st.ug.edu.gh"`
	Phone  string `json:"phone" bson:"phone" validate:"required,phone" example:"+233 24-123-4567"`
	Course string `json:"course" bson:"course" validate:"required" example:"Computer Science"`
	Class  string `json:"class" bson:"class" validate:"required" example:"Level 300"`
} // @name CustomerInfo

// DocumentInfo is what the upload collaborator reports about a stored document.
//
// @Description Uploaded document metadata
type DocumentInfo struct {
	FileID          string `json:"file_id" example:"f_8c1d2e"`
	FileName        string `json:"file_name" example:"thesis.pdf"`
	PageCount       int    `json:"page_count" example:"10"`
	ColorPages      int    `json:"color_pages" example:"3"`
	MonochromePages int    `json:"monochrome_pages" example:"7"`
	SizeBytes       int64  `json:"size_bytes" example:"524288"`
} // @name DocumentInfo

// Submission is the order API's acceptance of a draft. The order number and
// payment reference only ever exist together, inside this value.
type Submission struct {
	OrderNumber      string          `json:"order_number"`
	PaymentReference string          `json:"payment_reference"`
	PaymentURL       string          `json:"payment_url"`
	Breakdown        PriceBreakdown  `json:"breakdown"`
	TotalPrice       decimal.Decimal `json:"total_price" swaggertype:"string"`
	SubmittedAt      time.Time       `json:"submitted_at"`
}

// PaymentResult is the outcome of one payment status check.
type PaymentResult struct {
	Status      PaymentStatus `json:"status"`
	Message     string        `json:"message,omitempty"`
	OrderNumber string        `json:"order_number,omitempty"`
}

// OrderDraft is a customer's in-progress order.
type OrderDraft struct {
	FileID              string        `json:"file_id,omitempty"`
	FileName            string        `json:"file_name,omitempty"`
	PageCount           int           `json:"page_count"`
	ColorPageCount      int           `json:"color_page_count"`
	MonochromePageCount int           `json:"monochrome_page_count"`
	SizeBytes           int64         `json:"size_bytes,omitempty"`
	PrintColorMode      ColorMode     `json:"print_color_mode"`
	Binding             BindingMethod `json:"binding"`
	CampusDelivery      bool          `json:"campus_delivery"`
	// PriceBreakdown is nil until the draft has been priced.
	PriceBreakdown    *PriceBreakdown `json:"price_breakdown,omitempty"`
	PriceTableVersion int             `json:"price_table_version,omitempty"`
	Customer          *CustomerInfo   `json:"customer,omitempty"`
	Submission        *Submission     `json:"submission,omitempty"`
	// PaymentStatus holds the last terminal payment outcome, if any.
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
}

// NewOrderDraft returns an empty draft with default options.
func NewOrderDraft() OrderDraft {
	return OrderDraft{
		PrintColorMode: ColorModeMonochrome,
		Binding:        BindingNone,
	}
}

// HasDocument reports whether an uploaded document is attached.
func (d OrderDraft) HasDocument() bool {
	return d.FileID != "" && d.PageCount > 0
}

// SplitTracked reports whether the color/monochrome split covers every page.
func (d OrderDraft) SplitTracked() bool {
	return d.ColorPageCount+d.MonochromePageCount == d.PageCount &&
		(d.ColorPageCount > 0 || d.MonochromePageCount > 0)
}

// PricingInput derives the calculator input from the draft. Monochrome mode
// prints every page black and white. Colored mode prices each page by its
// detected color when the split is tracked, and every page as color otherwise.
func (d OrderDraft) PricingInput() PricingInput {
	var pages PageComposition
	switch {
	case d.PrintColorMode == ColorModeColored && d.SplitTracked():
		pages = SplitPages{ColorPages: d.ColorPageCount, MonochromePages: d.MonochromePageCount}
	default:
		pages = UniformPages{PageCount: d.PageCount, Mode: d.PrintColorMode}
	}
	return PricingInput{
		Pages:          pages,
		Binding:        d.Binding,
		CampusDelivery: d.CampusDelivery,
	}
}

// ApplyDocument copies uploaded document metadata into the draft. A split that
// does not add up to the page count is discarded.
func (d *OrderDraft) ApplyDocument(info DocumentInfo) {
	d.FileID = info.FileID
	d.FileName = info.FileName
	d.PageCount = info.PageCount
	d.ColorPageCount = info.ColorPages
	d.MonochromePageCount = info.MonochromePages
	d.SizeBytes = info.SizeBytes
	if !d.SplitTracked() {
		d.ColorPageCount = 0
		d.MonochromePageCount = 0
	}
}

// OrderNumber returns the assigned order number, or "" before submission.
func (d OrderDraft) OrderNumber() string {
	if d.Submission == nil {
		return ""
	}
	return d.Submission.OrderNumber
}

// PaymentReference returns the payment reference, or "" before submission.
func (d OrderDraft) PaymentReference() string {
	if d.Submission == nil {
		return ""
	}
	return d.Submission.PaymentReference
}

// Clone returns a deep copy of the draft.
func (d OrderDraft) Clone() OrderDraft {
	out := d
	if d.PriceBreakdown != nil {
		b := *d.PriceBreakdown
		out.PriceBreakdown = &b
	}
	if d.Customer != nil {
		c := *d.Customer
		out.Customer = &c
	}
	if d.Submission != nil {
		s := *d.Submission
		out.Submission = &s
	}
	return out
}
