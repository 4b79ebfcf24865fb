// Package orderapi is the REST client for the external order API, the system
// of record for uploads, orders and payments.
package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/metrics"
	"github.com/guttosm/print-order-service/internal/ordering"
)

const (
	// DefaultTimeout bounds every call that does not carry its own deadline.
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 4 << 20
)

// ErrNotFound is returned when the order API has no such order or payment.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the order API.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: order API returned %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: order API returned %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Is makes a 404 match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Rejected reports whether the order API refused the request itself, as
// opposed to failing to serve it.
func (e *APIError) Rejected() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 &&
		e.StatusCode != http.StatusRequestTimeout && e.StatusCode != http.StatusTooManyRequests
}

// API is everything the service consumes from the order API.
type API interface {
	ordering.DocumentUploader
	ordering.PriceConfirmer
	ordering.OrderSubmitter
	ordering.PaymentChecker
	ordering.OrderLookup
	ordering.AdminOrders
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBearerToken authenticates every call with a service token.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// Client calls the order API over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	token   string
}

// NewClient creates a client for the API rooted at baseURL, e.g.
// "http://localhost:5000/api".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse order API URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("order API URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// UploadDocument streams a PDF to the order API as multipart form field "file".
func (c *Client) UploadDocument(ctx context.Context, upload ordering.Upload) (model.DocumentInfo, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	written := make(chan struct{})
	go func() {
		defer close(written)
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.FileName))
		header.Set("Content-Type", "application/pdf")

		part, err := mw.CreatePart(header)
		if err == nil {
			_, err = io.Copy(part, upload.Body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var body uploadBody
	err := c.do(ctx, "upload_document", http.MethodPost, "/upload-pdf", mw.FormDataContentType(), pr, &body)
	// Unblock the writer if the request ended before reading it all, and
	// wait for it so upload.Body is not read after we return.
	_ = pr.CloseWithError(io.ErrClosedPipe)
	<-written
	if err != nil {
		return model.DocumentInfo{}, fmt.Errorf("%w: %w", ordering.ErrUpload, err)
	}
	if body.FileID == "" {
		return model.DocumentInfo{}, fmt.Errorf("%w: response has no file id", ordering.ErrUpload)
	}
	return body.toModel(), nil
}

// ConfirmPrice asks the order API to price the input.
func (c *Client) ConfirmPrice(ctx context.Context, input model.PricingInput) (model.PriceBreakdown, error) {
	req, err := newPriceRequest(input)
	if err != nil {
		return model.PriceBreakdown{}, fmt.Errorf("%w: %w", ordering.ErrPriceConfirmation, err)
	}

	var body priceBody
	if err := c.doJSON(ctx, "confirm_price", http.MethodPost, "/calculate-price", req, &body); err != nil {
		return model.PriceBreakdown{}, fmt.Errorf("%w: %w", ordering.ErrPriceConfirmation, err)
	}
	return body.toModel(), nil
}

// SubmitOrder creates an order awaiting payment.
func (c *Client) SubmitOrder(ctx context.Context, snapshot ordering.DraftSnapshot) (model.Submission, error) {
	var body submitBody
	if err := c.doJSON(ctx, "submit_order", http.MethodPost, "/submit-order", newSubmitRequest(snapshot), &body); err != nil {
		return model.Submission{}, fmt.Errorf("%w: %w", ordering.ErrSubmission, err)
	}
	if body.OrderNumber == "" || body.PaymentReference == "" {
		msg := body.Message
		if msg == "" {
			msg = "response is missing the order number or payment reference"
		}
		return model.Submission{}, fmt.Errorf("%w: %s", ordering.ErrSubmission, msg)
	}
	return model.Submission{
		OrderNumber:      body.OrderNumber,
		PaymentReference: body.PaymentReference,
		PaymentURL:       body.PaymentURL,
	}, nil
}

// CheckPaymentStatus verifies a payment by its reference.
func (c *Client) CheckPaymentStatus(ctx context.Context, reference string) (model.PaymentResult, error) {
	if reference == "" {
		return model.PaymentResult{}, fmt.Errorf("%w: empty payment reference", ordering.ErrPaymentCheck)
	}

	var body verifyBody
	if err := c.doJSON(ctx, "check_payment", http.MethodGet, "/payment/verify/"+url.PathEscape(reference), nil, &body); err != nil {
		return model.PaymentResult{}, fmt.Errorf("%w: %w", ordering.ErrPaymentCheck, err)
	}
	if !body.Success {
		msg := body.Message
		if msg == "" {
			msg = "failed to verify payment"
		}
		return model.PaymentResult{}, fmt.Errorf("%w: %s", ordering.ErrPaymentCheck, msg)
	}

	status, err := model.ParsePaymentStatus(body.Status)
	if err != nil {
		return model.PaymentResult{}, fmt.Errorf("%w: %w", ordering.ErrPaymentCheck, err)
	}
	return model.PaymentResult{Status: status, Message: body.Message, OrderNumber: body.OrderNumber}, nil
}

// GetOrderByNumber fetches one order.
func (c *Client) GetOrderByNumber(ctx context.Context, orderNumber string) (model.Order, error) {
	var body orderEnvelope
	if err := c.doJSON(ctx, "get_order", http.MethodGet, "/orders/"+url.PathEscape(orderNumber), nil, &body); err != nil {
		return model.Order{}, err
	}
	if body.Order.OrderNumber == "" {
		return model.Order{}, fmt.Errorf("get order %s: %w", orderNumber, ErrNotFound)
	}
	return body.Order.toModel(), nil
}

// ListOrders returns the most recent orders. A non-positive limit returns
// whatever the order API returns by default.
func (c *Client) ListOrders(ctx context.Context, limit int) ([]model.Order, error) {
	path := "/admin/orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var body ordersBody
	if err := c.doJSON(ctx, "list_orders", http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.toModel(), nil
}

// OrderStats returns the order API's dashboard aggregates, computed over
// every order rather than one page of them. An API without the endpoint
// yields ordering.ErrStatsUnsupported.
func (c *Client) OrderStats(ctx context.Context) (model.OrderStats, error) {
	var body statsBody
	if err := c.doJSON(ctx, "order_stats", http.MethodGet, "/admin/orders/stats", nil, &body); err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.OrderStats{}, fmt.Errorf("%w: %w", ordering.ErrStatsUnsupported, err)
		}
		return model.OrderStats{}, err
	}
	return body.toModel(), nil
}

// PendingPrints returns the orders waiting to be printed.
func (c *Client) PendingPrints(ctx context.Context) ([]model.Order, error) {
	var body ordersBody
	if err := c.doJSON(ctx, "pending_prints", http.MethodGet, "/admin/pending-prints", nil, &body); err != nil {
		return nil, err
	}
	return body.toModel(), nil
}

// UpdateOrderStatus changes an order's fulfilment status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderNumber string, status model.OrderStatus) error {
	path := "/admin/orders/" + url.PathEscape(orderNumber) + "/status"
	return c.doJSON(ctx, "update_order_status", http.MethodPut, path, statusRequest{Status: status}, nil)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, contentType, body, out)
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out interface{}) (err error) {
	start := time.Now()
	defer func() { metrics.RecordOrderAPICall(op, time.Since(start), err) }()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &APIError{Operation: op, StatusCode: resp.StatusCode, Message: eb.text()}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}
