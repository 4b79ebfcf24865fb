// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model: they carry the raw
// client input and convert it into validated domain values.
package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/ordering"
)

// QuoteRequest asks for the price of a print job without starting an order.
// Setting color_pages or monochrome_pages prices each page by its own color;
// otherwise every one of page_count pages is printed in print_color.
//
// @Description Request to price a print job
// @Example {"page_count": 10, "print_color": "monochrome", "binding": "comb", "campus_delivery": true}
type QuoteRequest struct {
	PageCount       int    `json:"page_count" example:"10" minimum:"0"`
	PrintColor      string `json:"print_color" example:"monochrome" enums:"monochrome,colored"`
	ColorPages      int    `json:"color_pages" example:"0" minimum:"0"`
	MonochromePages int    `json:"monochrome_pages" example:"0" minimum:"0"`
	Binding         string `json:"binding" example:"comb" enums:"none,comb,slide,tape"`
	CampusDelivery  bool   `json:"campus_delivery" example:"true"`
} // @name QuoteRequest

// PricingInput converts the request into a pricing input. Every malformed
// field is reported.
func (r *QuoteRequest) PricingInput() (model.PricingInput, error) {
	errs := model.FieldErrors{}
	input := model.PricingInput{CampusDelivery: r.CampusDelivery}

	binding, err := parseBinding(r.Binding)
	if err != nil {
		errs["binding"] = err.Error()
	}
	input.Binding = binding

	if r.ColorPages != 0 || r.MonochromePages != 0 {
		if r.ColorPages < 0 {
			errs["color_pages"] = "must not be negative"
		}
		if r.MonochromePages < 0 {
			errs["monochrome_pages"] = "must not be negative"
		}
		if r.PageCount != 0 && r.PageCount != r.ColorPages+r.MonochromePages {
			errs["page_count"] = "must equal color_pages + monochrome_pages"
		}
		input.Pages = model.SplitPages{ColorPages: r.ColorPages, MonochromePages: r.MonochromePages}
	} else {
		if r.PageCount < 0 {
			errs["page_count"] = "must not be negative"
		}
		mode, err := parseColor(r.PrintColor)
		if err != nil {
			errs["print_color"] = err.Error()
		}
		input.Pages = model.UniformPages{PageCount: r.PageCount, Mode: mode}
	}

	if len(errs) > 0 {
		return model.PricingInput{}, errs
	}
	return input, nil
}

// UpdateOptionsRequest changes the print options of a draft. Omitted fields
// keep their current value.
//
// @Description Print option changes
// @Example {"print_color": "colored", "binding": "slide"}
type UpdateOptionsRequest struct {
	PrintColor     *string `json:"print_color,omitempty" example:"colored" enums:"monochrome,colored"`
	Binding        *string `json:"binding,omitempty" example:"slide" enums:"none,comb,slide,tape"`
	CampusDelivery *bool   `json:"campus_delivery,omitempty" example:"false"`
} // @name UpdateOptionsRequest

// Patch converts the request into a machine options patch.
func (r *UpdateOptionsRequest) Patch() (ordering.OptionsPatch, error) {
	errs := model.FieldErrors{}
	var patch ordering.OptionsPatch

	if r.PrintColor != nil {
		mode, err := model.ParseColorMode(*r.PrintColor)
		if err != nil {
			errs["print_color"] = "must be monochrome or colored"
		} else {
			patch.PrintColorMode = &mode
		}
	}
	if r.Binding != nil {
		binding, err := model.ParseBindingMethod(*r.Binding)
		if err != nil {
			errs["binding"] = "must be one of none, comb, slide, tape"
		} else {
			patch.Binding = &binding
		}
	}
	patch.CampusDelivery = r.CampusDelivery

	if len(errs) > 0 {
		return ordering.OptionsPatch{}, errs
	}
	if patch.PrintColorMode == nil && patch.Binding == nil && patch.CampusDelivery == nil {
		return ordering.OptionsPatch{}, model.NewValidationError("options", "at least one option is required")
	}
	return patch, nil
}

// CustomerInfoRequest carries the customer's contact and class details.
//
// @Description Customer details
type CustomerInfoRequest struct {
	Name   string `json:"name" example:"Ama Mensah"`
	Email  string `json:"email" example:"ama@st.ug.edu.gh"`
	Phone  string `json:"phone" example:"+233 24-123-4567"`
	Course string `json:"course" example:"Computer Science"`
	Class  string `json:"class" example:"Level 300"`
} // @name CustomerInfoRequest

// CustomerInfo returns the request as a domain value. Validation is done by
// the order flow.
func (r *CustomerInfoRequest) CustomerInfo() model.CustomerInfo {
	return model.CustomerInfo{
		Name:   strings.TrimSpace(r.Name),
		Email:  strings.TrimSpace(r.Email),
		Phone:  strings.TrimSpace(r.Phone),
		Course: strings.TrimSpace(r.Course),
		Class:  strings.TrimSpace(r.Class),
	}
}

// UpdateOrderStatusRequest changes an order's fulfilment status.
//
// @Description Order status change
// @Example {"status": "processing"}
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"processing" enums:"pending,processing,completed,failed,cancelled"`
} // @name UpdateOrderStatusRequest

// OrderStatus parses the requested status.
func (r *UpdateOrderStatusRequest) OrderStatus() (model.OrderStatus, error) {
	return model.ParseOrderStatus(r.Status)
}

// PublishPriceTableRequest publishes a new price table version.
//
// @Description New price table version
// @Example {"monochrome_rate": "1", "colored_rate": "2", "binding_rates": {"none": "0", "comb": "5", "slide": "7", "tape": "3"}, "delivery_rate": "2"}
type PublishPriceTableRequest struct {
	Currency       string                     `json:"currency,omitempty" example:"GHC"`
	MonochromeRate decimal.Decimal            `json:"monochrome_rate" swaggertype:"string" example:"1"`
	ColoredRate    decimal.Decimal            `json:"colored_rate" swaggertype:"string" example:"2"`
	BindingRates   map[string]decimal.Decimal `json:"binding_rates" swaggertype:"object"`
	DeliveryRate   decimal.Decimal            `json:"delivery_rate" swaggertype:"string" example:"2"`
} // @name PublishPriceTableRequest

// PriceTable converts the request into a price table. The table's own
// validation runs when it is published.
func (r *PublishPriceTableRequest) PriceTable() (model.PriceTable, error) {
	errs := model.FieldErrors{}
	rates := make(map[model.BindingMethod]decimal.Decimal, len(r.BindingRates))
	for raw, rate := range r.BindingRates {
		method, err := model.ParseBindingMethod(raw)
		if err != nil {
			errs["binding_rates."+raw] = "unknown binding method"
			continue
		}
		rates[method] = rate
	}
	if len(r.BindingRates) == 0 {
		errs["binding_rates"] = "is required"
	}
	if len(errs) > 0 {
		return model.PriceTable{}, errs
	}

	return model.PriceTable{
		Currency:       strings.ToUpper(strings.TrimSpace(r.Currency)),
		MonochromeRate: r.MonochromeRate,
		ColoredRate:    r.ColoredRate,
		BindingRates:   rates,
		DeliveryRate:   r.DeliveryRate,
	}, nil
}

// OrderListParams are the admin order list query parameters.
type OrderListParams struct {
	Status    string `form:"status"`
	DateRange string `form:"dateRange"`
	Search    string `form:"search"`
	Sort      string `form:"sort"`
	Direction string `form:"direction"`
	Limit     string `form:"limit"`
}

// MaxOrderListLimit caps how many orders one admin list request fetches.
const MaxOrderListLimit = 500

// Parse converts the parameters into filters, sorting and a fetch limit. A
// status of "all" matches every status; an empty sort lists newest first.
func (p *OrderListParams) Parse() (model.OrderFilters, model.OrderSorting, int, error) {
	errs := model.FieldErrors{}
	var filters model.OrderFilters

	if s := strings.TrimSpace(p.Status); s != "" && s != "all" {
		status, err := model.ParseOrderStatus(s)
		if err != nil {
			errs["status"] = "unknown order status"
		}
		filters.Status = status
	}

	dateRange, err := model.ParseDateRange(p.DateRange)
	if err != nil {
		errs["dateRange"] = "must be one of all, today, yesterday, thisWeek, thisMonth"
	}
	filters.DateRange = dateRange
	filters.Search = strings.TrimSpace(p.Search)

	sorting := model.DefaultOrderSorting
	if p.Sort != "" {
		sorting = model.OrderSorting{Field: p.Sort, Direction: model.SortAsc}
	}
	switch d := model.SortDirection(strings.ToLower(p.Direction)); d {
	case "":
	case model.SortAsc, model.SortDesc:
		sorting.Direction = d
	default:
		errs["direction"] = "must be asc or desc"
	}

	limit := 0
	if p.Limit != "" {
		n, err := strconv.Atoi(p.Limit)
		if err != nil || n < 1 || n > MaxOrderListLimit {
			errs["limit"] = fmt.Sprintf("must be between 1 and %d", MaxOrderListLimit)
		}
		limit = n
	}

	if len(errs) > 0 {
		return model.OrderFilters{}, model.OrderSorting{}, 0, errs
	}
	return filters, sorting, limit, nil
}

func parseBinding(raw string) (model.BindingMethod, error) {
	if strings.TrimSpace(raw) == "" {
		return model.BindingNone, nil
	}
	binding, err := model.ParseBindingMethod(raw)
	if err != nil {
		return "", errors.New("must be one of none, comb, slide, tape")
	}
	return binding, nil
}

func parseColor(raw string) (model.ColorMode, error) {
	if strings.TrimSpace(raw) == "" {
		return model.ColorModeMonochrome, nil
	}
	mode, err := model.ParseColorMode(raw)
	if err != nil {
		return "", errors.New("must be monochrome or colored")
	}
	return mode, nil
}
