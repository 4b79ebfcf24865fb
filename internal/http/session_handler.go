package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/print-order-service/internal/domain/dto"
	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/i18n"
	"github.com/guttosm/print-order-service/internal/middleware"
	"github.com/guttosm/print-order-service/internal/ordering"
	"github.com/guttosm/print-order-service/internal/service"
)

// multipartOverhead is the room left above the upload limit for the
// multipart envelope before the request body is cut off.
const multipartOverhead = 1 << 20

// SessionHandler drives customers' order sessions through the order flow.
type SessionHandler struct {
	sessions       service.SessionService
	maxUploadBytes int64
}

// NewSessionHandler creates a new SessionHandler. maxUploadBytes bounds the
// request body of document uploads; zero means the flow's default limit.
func NewSessionHandler(sessions service.SessionService, maxUploadBytes int64) *SessionHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = ordering.DefaultMaxUploadBytes
	}
	return &SessionHandler{sessions: sessions, maxUploadBytes: maxUploadBytes}
}

// session resolves the :id parameter and tags the request with it.
func (h *SessionHandler) session(c *gin.Context) (string, *ordering.Machine, bool) {
	id := c.Param("id")
	m, err := h.sessions.Get(id)
	if err != nil {
		respondError(c, err)
		return "", nil, false
	}
	c.Set(middleware.ContextKeySessionID, id)
	return id, m, true
}

func (h *SessionHandler) reply(c *gin.Context, id string, m *ordering.Machine, snap ordering.Snapshot, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	if n := snap.Draft.OrderNumber(); n != "" {
		c.Set(middleware.ContextKeyOrderNumber, n)
	}
	NewResponseBuilder(c).SuccessOK(dto.NewSessionResponse(id, snap, m.Currency()))
}

// Start handles POST /api/sessions requests.
//
// @Summary      Start an order session
// @Description  Opens a new order session at the upload step, priced with the price table active right now.
// @Tags         Sessions
// @Produce      json
// @Success      201 {object} dto.SuccessResponse{data=dto.SessionResponse} "New session"
// @Failure      429 {object} dto.ErrorResponse "Too many requests - rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Router       /api/sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	id, m, err := h.sessions.Start(c.Request.Context())
	if err != nil {
		audit(c, model.ActionSessionStart, "Order session start", err, nil)
		respondError(c, err)
		return
	}
	c.Set(middleware.ContextKeySessionID, id)
	audit(c, model.ActionSessionStart, "Order session started", nil, nil)
	NewResponseBuilder(c).SuccessCreated(dto.NewSessionResponse(id, m.Snapshot(), m.Currency()))
}

// Get handles GET /api/sessions/{id} requests.
//
// @Summary      Get an order session
// @Description  Returns the current step and draft of an order session.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	h.reply(c, id, m, m.Snapshot(), nil)
}

// Discard handles DELETE /api/sessions/{id} requests.
//
// @Summary      Discard an order session
// @Tags         Sessions
// @Param        id path string true "Session ID"
// @Success      204 "Session discarded"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Router       /api/sessions/{id} [delete]
func (h *SessionHandler) Discard(c *gin.Context) {
	id := c.Param("id")
	if err := h.sessions.Discard(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadDocument handles POST /api/sessions/{id}/document requests.
//
// @Summary      Upload the document to print
// @Description  Uploads a PDF to the order API and seeds the draft with its file name and page counts. Only allowed at the upload step.
// @Tags         Sessions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        file formData file true "PDF document"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session with the document attached"
// @Failure      400 {object} dto.ErrorResponse "No file in the request"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Not at the upload step, or another step is in progress"
// @Failure      422 {object} dto.ErrorResponse "Document rejected"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Router       /api/sessions/{id}/document [post]
func (h *SessionHandler) UploadDocument(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	file, err := fh.Open()
	if err != nil {
		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	defer file.Close()

	snap, err := m.AttachDocument(c.Request.Context(), ordering.Upload{
		FileName: fh.Filename,
		Size:     fh.Size,
		Body:     file,
	})
	audit(c, model.ActionDocumentAttach, "Document attached", err, map[string]interface{}{
		"file_name":  fh.Filename,
		"size_bytes": fh.Size,
		"page_count": snap.Draft.PageCount,
	})
	h.reply(c, id, m, snap, err)
}

// SetDocument handles PUT /api/sessions/{id}/document requests.
//
// @Summary      Attach an already uploaded document
// @Description  Seeds the draft from a document the order API already holds. Only allowed at the upload step.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body model.DocumentInfo true "Document"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session with the document attached"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Not at the upload step"
// @Failure      422 {object} dto.ErrorResponse "Document metadata rejected"
// @Router       /api/sessions/{id}/document [put]
func (h *SessionHandler) SetDocument(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	info, ok := bindJSON[model.DocumentInfo](c)
	if !ok {
		return
	}
	snap, err := m.SetDocument(*info)
	audit(c, model.ActionDocumentAttach, "Document attached", err, map[string]interface{}{
		"file_id":    info.FileID,
		"page_count": info.PageCount,
	})
	h.reply(c, id, m, snap, err)
}

// UpdateOptions handles PATCH /api/sessions/{id}/options requests.
//
// @Summary      Change print options
// @Description  Changes print color, binding or campus delivery and reprices the draft. Allowed at the upload and customer details steps.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.UpdateOptionsRequest true "Option changes"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Repriced session"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Options are locked at this step"
// @Router       /api/sessions/{id}/options [patch]
func (h *SessionHandler) UpdateOptions(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	req, ok := bindJSON[dto.UpdateOptionsRequest](c)
	if !ok {
		return
	}
	patch, err := req.Patch()
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := m.UpdateOptions(patch)
	h.reply(c, id, m, snap, err)
}

// Proceed handles POST /api/sessions/{id}/proceed requests.
//
// @Summary      Continue to the next step
// @Description  Leaves the upload step once a priced document is attached. The server confirms the price first when the draft is upload-tracked.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session at the customer details step"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Step requirements not met"
// @Failure      502 {object} dto.ErrorResponse "Price confirmation failed"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Router       /api/sessions/{id}/proceed [post]
func (h *SessionHandler) Proceed(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := m.Proceed(c.Request.Context())
	h.reply(c, id, m, snap, err)
}

// SubmitCustomerInfo handles PUT /api/sessions/{id}/customer requests.
//
// @Summary      Submit customer details
// @Description  Validates the customer's contact and class details and moves to review.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.CustomerInfoRequest true "Customer details"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session at the review step"
// @Failure      400 {object} dto.ErrorResponse "Invalid customer details"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Not at the customer details step"
// @Router       /api/sessions/{id}/customer [put]
func (h *SessionHandler) SubmitCustomerInfo(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	req, ok := bindJSON[dto.CustomerInfoRequest](c)
	if !ok {
		return
	}
	snap, err := m.SubmitCustomerInfo(req.CustomerInfo())
	h.reply(c, id, m, snap, err)
}

// Back handles POST /api/sessions/{id}/back requests.
//
// @Summary      Go back one step
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session at the previous step"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "No previous step"
// @Router       /api/sessions/{id}/back [post]
func (h *SessionHandler) Back(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := m.Back()
	h.reply(c, id, m, snap, err)
}

// Submit handles POST /api/sessions/{id}/submit requests.
//
// @Summary      Submit the order
// @Description  Submits the reviewed draft to the order API and moves to payment. Submitting again after cancelling payment reuses the same order. Supports idempotency via Idempotency-Key header.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session at the payment step"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Not at the review step, or requirements not met"
// @Failure      502 {object} dto.ErrorResponse "Order submission failed"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Router       /api/sessions/{id}/submit [post]
func (h *SessionHandler) Submit(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := m.Submit(c.Request.Context())
	fields := map[string]interface{}{}
	if n := snap.Draft.OrderNumber(); n != "" {
		c.Set(middleware.ContextKeyOrderNumber, n)
		fields["payment_reference"] = snap.Draft.PaymentReference()
	}
	audit(c, model.ActionOrderSubmit, "Order submitted", err, fields)
	h.reply(c, id, m, snap, err)
}

// CancelPayment handles POST /api/sessions/{id}/payment/cancel requests.
//
// @Summary      Return from payment to review
// @Description  Leaves the payment step. The submitted order is kept and reused by the next submit.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session at the review step"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Not at the payment step"
// @Router       /api/sessions/{id}/payment/cancel [post]
func (h *SessionHandler) CancelPayment(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := m.CancelPayment()
	h.reply(c, id, m, snap, err)
}

// CheckPayment handles POST /api/sessions/{id}/payment/check requests.
//
// @Summary      Check the payment
// @Description  Asks the order API whether the order was paid. A confirmed payment moves the session to the confirmation step; pending and failed payments leave it at payment.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.PaymentCheckResponse} "Payment result and session"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Not at the payment step"
// @Failure      502 {object} dto.ErrorResponse "Payment check failed"
// @Failure      503 {object} dto.ErrorResponse "Order API unavailable"
// @Router       /api/sessions/{id}/payment/check [post]
func (h *SessionHandler) CheckPayment(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	result, err := m.CheckPayment(c.Request.Context())
	snap := m.Snapshot()
	if n := snap.Draft.OrderNumber(); n != "" {
		c.Set(middleware.ContextKeyOrderNumber, n)
	}
	audit(c, model.ActionPaymentCheck, "Payment checked", err, map[string]interface{}{
		"payment_status": string(result.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.PaymentCheckResponse{
		Payment: result,
		Session: dto.NewSessionResponse(id, snap, m.Currency()),
	})
}

// Reset handles POST /api/sessions/{id}/reset requests.
//
// @Summary      Start a new order in the same session
// @Description  Clears the draft and returns to the upload step. Not allowed while a step is in progress.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse} "Session at the upload step"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Another step is in progress"
// @Router       /api/sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	id, m, ok := h.session(c)
	if !ok {
		return
	}
	snap, err := m.Reset()
	h.reply(c, id, m, snap, err)
}

// Receipt handles GET /api/sessions/{id}/receipt requests.
//
// @Summary      Get the order receipt
// @Description  Returns the display data of a confirmed order.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=ordering.Receipt} "Receipt"
// @Failure      404 {object} dto.ErrorResponse "Session not found or expired"
// @Failure      409 {object} dto.ErrorResponse "Order not confirmed yet"
// @Router       /api/sessions/{id}/receipt [get]
func (h *SessionHandler) Receipt(c *gin.Context) {
	_, m, ok := h.session(c)
	if !ok {
		return
	}
	receipt, err := m.Receipt(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set(middleware.ContextKeyOrderNumber, receipt.OrderNumber)
	NewResponseBuilder(c).SuccessOK(receipt)
}

// Stats handles GET /api/admin/sessions/stats requests.
//
// @Summary      Session store statistics
// @Tags         Admin
// @Produce      json
// @Param        Authorization header string false "Bearer token (required if auth enabled)"
// @Success      200 {object} dto.SuccessResponse{data=service.SessionStats} "Session store statistics"
// @Failure      401 {object} dto.ErrorResponse "Unauthorized - missing or invalid JWT token"
// @Failure      403 {object} dto.ErrorResponse "Forbidden - insufficient permissions"
// @Security     BearerAuth
// @Router       /api/admin/sessions/stats [get]
func (h *SessionHandler) Stats(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.sessions.Stats())
}
