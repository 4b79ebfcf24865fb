package orderapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/ordering"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorBody) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type uploadBody struct {
	FileID          string `json:"fileId"`
	OriginalName    string `json:"originalName"`
	PageCount       int    `json:"pageCount"`
	ColorPages      int    `json:"colorPages"`
	MonochromePages int    `json:"monochromePages"`
	Size            int64  `json:"size"`
}

func (u uploadBody) toModel() model.DocumentInfo {
	return model.DocumentInfo{
		FileID:          u.FileID,
		FileName:        u.OriginalName,
		PageCount:       u.PageCount,
		ColorPages:      u.ColorPages,
		MonochromePages: u.MonochromePages,
		SizeBytes:       u.Size,
	}
}

type priceRequest struct {
	PageCount       *int                `json:"pageCount,omitempty"`
	ColorPages      *int                `json:"colorPages,omitempty"`
	MonochromePages *int                `json:"monochromePages,omitempty"`
	PrintColor      model.ColorMode     `json:"printColor"`
	Binding         model.BindingMethod `json:"binding"`
	CampusDelivery  bool                `json:"campusDelivery"`
}

func newPriceRequest(in model.PricingInput) (priceRequest, error) {
	req := priceRequest{Binding: in.Binding, CampusDelivery: in.CampusDelivery}
	switch p := in.Pages.(type) {
	case model.UniformPages:
		n := p.PageCount
		req.PageCount = &n
		req.PrintColor = p.Mode
	case model.SplitPages:
		c, m := p.ColorPages, p.MonochromePages
		req.ColorPages = &c
		req.MonochromePages = &m
		req.PrintColor = model.ColorModeColored
	default:
		return priceRequest{}, model.ErrUnknownComposition
	}
	return req, nil
}

type priceBody struct {
	BaseCost     decimal.Decimal `json:"baseCost"`
	BindingCost  decimal.Decimal `json:"bindingCost"`
	DeliveryCost decimal.Decimal `json:"deliveryCost"`
}

// toModel rounds each amount to minor units, since the order API computes
// in floating point.
func (p priceBody) toModel() model.PriceBreakdown {
	return model.NewPriceBreakdown(p.BaseCost.Round(2), p.BindingCost.Round(2), p.DeliveryCost.Round(2))
}

type userInfoBody struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Course string `json:"course"`
	Class  string `json:"class"`
}

type submitRequest struct {
	FileID          string              `json:"fileId"`
	FileName        string              `json:"fileName"`
	PageCount       int                 `json:"pageCount"`
	ColorPages      int                 `json:"colorPages"`
	MonochromePages int                 `json:"monochromePages"`
	PrintColor      model.ColorMode     `json:"printColor"`
	Binding         model.BindingMethod `json:"binding"`
	CampusDelivery  bool                `json:"campusDelivery"`
	TotalPrice      json.Number         `json:"totalPrice"`
	UserInfo        userInfoBody        `json:"userInfo"`
}

func newSubmitRequest(s ordering.DraftSnapshot) submitRequest {
	d := s.Draft
	return submitRequest{
		FileID:          d.FileID,
		FileName:        d.FileName,
		PageCount:       d.PageCount,
		ColorPages:      d.ColorPageCount,
		MonochromePages: d.MonochromePageCount,
		PrintColor:      d.PrintColorMode,
		Binding:         d.Binding,
		CampusDelivery:  d.CampusDelivery,
		TotalPrice:      json.Number(s.Breakdown.SubmissionTotal().StringFixed(2)),
		UserInfo: userInfoBody{
			Name:   s.Customer.Name,
			Email:  s.Customer.Email,
			Phone:  s.Customer.Phone,
			Course: s.Customer.Course,
			Class:  s.Customer.Class,
		},
	}
}

type submitBody struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	OrderNumber      string `json:"orderNumber"`
	PaymentReference string `json:"paymentReference"`
	PaymentURL       string `json:"paymentUrl"`
}

type verifyBody struct {
	Success     bool   `json:"success"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	OrderNumber string `json:"orderNumber"`
}

// flexibleID accepts identifiers encoded as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	*f = flexibleID(strings.TrimSpace(string(b)))
	return nil
}

var apiTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// apiTime accepts the timestamp layouts the order API is known to emit.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range apiTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type orderBody struct {
	model.Order
	ID        flexibleID `json:"id"`
	CreatedAt apiTime    `json:"created_at"`
	UpdatedAt apiTime    `json:"updated_at"`
	Payment   struct {
		Reference string   `json:"reference"`
		Status    string   `json:"status"`
		Method    *string  `json:"method"`
		Date      *apiTime `json:"date"`
	} `json:"payment"`
}

func (o orderBody) toModel() model.Order {
	out := o.Order
	out.ID = string(o.ID)
	out.CreatedAt = o.CreatedAt.Time
	out.UpdatedAt = o.UpdatedAt.Time
	out.Payment = model.Payment{Reference: o.Payment.Reference}
	if status, err := model.ParsePaymentStatus(o.Payment.Status); err == nil {
		out.Payment.Status = status
	} else {
		out.Payment.Status = model.PaymentPending
	}
	if o.Payment.Method != nil {
		out.Payment.Method = *o.Payment.Method
	}
	if o.Payment.Date != nil {
		t := o.Payment.Date.Time
		out.Payment.Date = &t
	}
	return out
}

type ordersBody struct {
	Success bool        `json:"success"`
	Orders  []orderBody `json:"orders"`
}

func (b ordersBody) toModel() []model.Order {
	out := make([]model.Order, 0, len(b.Orders))
	for _, o := range b.Orders {
		out = append(out, o.toModel())
	}
	return out
}

type orderEnvelope struct {
	Success bool      `json:"success"`
	Order   orderBody `json:"order"`
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

// flexibleCount accepts counts encoded as JSON numbers or numeric strings.
type flexibleCount int

func (f *flexibleCount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return fmt.Errorf("count %s: %w", b, err)
	}
	*f = flexibleCount(v)
	return nil
}

type statsBody struct {
	Success bool `json:"success"`
	Stats   struct {
		StatusCounts []struct {
			Status model.OrderStatus `json:"order_status"`
			Count  flexibleCount     `json:"count"`
		} `json:"statusCounts"`
		DailyCounts []struct {
			Date  apiTime       `json:"date"`
			Count flexibleCount `json:"count"`
		} `json:"dailyCounts"`
		TotalRevenue decimal.NullDecimal `json:"totalRevenue"`
		TodayOrders  flexibleCount       `json:"todayOrders"`
	} `json:"stats"`
}

func (b statsBody) toModel() model.OrderStats {
	out := model.OrderStats{
		StatusCounts: make([]model.StatusCount, 0, len(b.Stats.StatusCounts)),
		DailyCounts:  make([]model.DailyCount, 0, len(b.Stats.DailyCounts)),
		TotalRevenue: decimal.Zero,
		TodayOrders:  int(b.Stats.TodayOrders),
	}
	for _, sc := range b.Stats.StatusCounts {
		out.StatusCounts = append(out.StatusCounts, model.StatusCount{Status: sc.Status, Count: int(sc.Count)})
	}
	for _, dc := range b.Stats.DailyCounts {
		out.DailyCounts = append(out.DailyCounts, model.DailyCount{Date: dc.Date.Format(time.DateOnly), Count: int(dc.Count)})
	}
	if b.Stats.TotalRevenue.Valid {
		out.TotalRevenue = b.Stats.TotalRevenue.Decimal
	}
	return out
}
