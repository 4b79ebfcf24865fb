package ordering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/print-order-service/internal/domain/model"
	"github.com/guttosm/print-order-service/internal/logger"
	"github.com/guttosm/print-order-service/internal/metrics"
)

// Option configures a Machine.
type Option func(*Machine)

// WithCollaborators sets the external services used by the flow.
func WithCollaborators(c Collaborators) Option {
	return func(m *Machine) {
		m.deps = c
	}
}

// WithUploadPolicy sets the document acceptance rules.
func WithUploadPolicy(p UploadPolicy) Option {
	return func(m *Machine) {
		m.uploads = p
	}
}

// WithCustomerValidator shares a validator between machines.
func WithCustomerValidator(v *CustomerValidator) Option {
	return func(m *Machine) {
		if v != nil {
			m.validator = v
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithSessionID tags log events with the owning session.
func WithSessionID(id string) Option {
	return func(m *Machine) {
		m.sessionID = id
	}
}

// Snapshot is a point-in-time copy of a machine's state.
type Snapshot struct {
	Step      Step             `json:"step"`
	Draft     model.OrderDraft `json:"draft"`
	InFlight  bool             `json:"in_flight"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// OptionsPatch changes order options. Nil fields are left as they are.
type OptionsPatch struct {
	PrintColorMode *model.ColorMode
	Binding        *model.BindingMethod
	CampusDelivery *bool
}

// Machine sequences one customer's order through upload, customer details,
// review, payment and confirmation.
//
// All methods are safe for concurrent use. Collaborator calls run without
// holding the lock; while one is outstanding every other state-changing
// call fails with ErrTransitionInFlight.
type Machine struct {
	mu        sync.Mutex
	step      Step
	draft     model.OrderDraft
	inFlight  bool
	updatedAt time.Time

	// submitted is the snapshot behind draft.Submission.
	submitted *DraftSnapshot
	// priceConfirmed is set while the breakdown is the confirmer's and
	// cleared by every local reprice.
	priceConfirmed bool

	pricer    Pricer
	deps      Collaborators
	uploads   UploadPolicy
	validator *CustomerValidator
	now       func() time.Time
	sessionID string
}

// NewMachine returns a machine at the Upload step with an empty draft.
func NewMachine(pricer Pricer, opts ...Option) *Machine {
	m := &Machine{
		step:    StepUpload,
		draft:   model.NewOrderDraft(),
		pricer:  pricer,
		uploads: UploadPolicy{MaxBytes: DefaultMaxUploadBytes},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.validator == nil {
		m.validator = NewCustomerValidator()
	}
	m.draft.PriceTableVersion = pricer.Table().Version
	m.updatedAt = m.now()
	return m
}

// Step returns the current step.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Currency is the currency of the price table the session is pinned to.
func (m *Machine) Currency() string {
	return m.pricer.Table().Currency
}

// UpdatedAt returns when the machine last changed.
func (m *Machine) UpdatedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updatedAt
}

// AttachDocument uploads a document and seeds the draft with it. On failure
// the draft's file fields are left as they were.
func (m *Machine) AttachDocument(ctx context.Context, upload Upload) (Snapshot, error) {
	const action = "attach_document"

	m.mu.Lock()
	if err := m.checkEditLocked(action, m.step == StepUpload); err != nil {
		m.mu.Unlock()
		return Snapshot{}, err
	}
	uploader := m.deps.Uploader
	if uploader == nil {
		m.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: no document uploader configured", ErrUpload)
	}
	m.inFlight = true
	m.mu.Unlock()

	checked, err := m.uploads.Check(upload)
	var info model.DocumentInfo
	if err == nil {
		info, err = uploader.UploadDocument(ctx, checked)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		if !errors.Is(err, ErrUpload) {
			err = fmt.Errorf("%w: %w", ErrUpload, err)
		}
		m.logEvent(zerolog.WarnLevel, action).Err(err).Str("file_name", checked.FileName).Msg("Document upload failed")
		return m.snapshotLocked(), err
	}
	if info.SizeBytes == 0 {
		info.SizeBytes = checked.Size
	}
	if info.FileName == "" {
		info.FileName = checked.FileName
	}

	if err := m.applyDocumentLocked(info); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// SetDocument seeds the draft from a document uploaded elsewhere.
func (m *Machine) SetDocument(info model.DocumentInfo) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkEditLocked("set_document", m.step == StepUpload); err != nil {
		return Snapshot{}, err
	}
	if err := m.applyDocumentLocked(info); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

func (m *Machine) applyDocumentLocked(info model.DocumentInfo) error {
	if info.FileID == "" {
		return fmt.Errorf("%w: %w", ErrUpload, model.NewValidationError("file_id", "is required"))
	}
	if info.PageCount <= 0 {
		return fmt.Errorf("%w: %w", ErrUpload, model.NewValidationError("page_count", "document has no pages"))
	}
	if info.ColorPages < 0 {
		return fmt.Errorf("%w: %w", ErrUpload, model.NewValidationError("color_pages", "must not be negative"))
	}
	if info.MonochromePages < 0 {
		return fmt.Errorf("%w: %w", ErrUpload, model.NewValidationError("monochrome_pages", "must not be negative"))
	}

	next := m.draft.Clone()
	next.ApplyDocument(info)
	if err := m.repriceInto(&next); err != nil {
		return err
	}

	m.commitLocked(next)
	m.priceConfirmed = false
	m.logEvent(zerolog.InfoLevel, "attach_document").
		Str("file_id", info.FileID).
		Int("page_count", next.PageCount).
		Bool("split_tracked", next.SplitTracked()).
		Msg("Document attached")
	return nil
}

// UpdateOptions applies option changes and replaces the price breakdown in
// full with a local one. Options can change only in the Upload and UserInfo
// steps.
func (m *Machine) UpdateOptions(patch OptionsPatch) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkEditLocked("update_options", m.step.editable()); err != nil {
		return Snapshot{}, err
	}

	next := m.draft.Clone()
	if patch.PrintColorMode != nil {
		mode, err := model.ParseColorMode(string(*patch.PrintColorMode))
		if err != nil {
			return m.snapshotLocked(), err
		}
		next.PrintColorMode = mode
	}
	if patch.Binding != nil {
		binding, err := model.ParseBindingMethod(string(*patch.Binding))
		if err != nil {
			return m.snapshotLocked(), err
		}
		next.Binding = binding
	}
	if patch.CampusDelivery != nil {
		next.CampusDelivery = *patch.CampusDelivery
	}

	if err := m.repriceInto(&next); err != nil {
		return m.snapshotLocked(), err
	}
	m.commitLocked(next)
	m.priceConfirmed = false
	return m.snapshotLocked(), nil
}

// repriceInto recomputes the breakdown of a draft that has a document. The
// breakdown is replaced as a whole, never patched.
func (m *Machine) repriceInto(d *model.OrderDraft) error {
	if !d.HasDocument() {
		d.PriceBreakdown = nil
		return nil
	}
	b, err := m.pricer.ComputeBreakdown(d.PricingInput())
	if err != nil {
		m.logEvent(zerolog.ErrorLevel, "price").Err(err).Msg("Price computation failed")
		return fmt.Errorf("compute price: %w", err)
	}
	d.PriceBreakdown = &b
	d.PriceTableVersion = m.pricer.Table().Version
	return nil
}

// Proceed moves from Upload to UserInfo. The draft needs a document and a
// computed price. When a PriceConfirmer is configured its breakdown replaces
// the local one if they differ.
func (m *Machine) Proceed(ctx context.Context) (Snapshot, error) {
	const action = "proceed"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkStepLocked(action, StepUpload); err != nil {
		return Snapshot{}, err
	}
	if err := m.uploadGuardLocked(); err != nil {
		m.recordLocked(StepUserInfo, "refused")
		return Snapshot{}, err
	}
	if confirmer := m.deps.Confirmer; confirmer != nil {
		if err := m.confirmPriceLocked(ctx, action, confirmer); err != nil {
			m.recordLocked(StepUserInfo, "error")
			return m.snapshotLocked(), err
		}
	}
	if err := m.moveLocked(StepUserInfo); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// confirmPriceLocked asks the confirmer to price the draft and keeps the
// server breakdown when it differs from the local one. The lock is released
// for the call and held again on return.
func (m *Machine) confirmPriceLocked(ctx context.Context, action string, confirmer PriceConfirmer) error {
	input := m.draft.PricingInput()
	local := *m.draft.PriceBreakdown
	m.inFlight = true
	m.mu.Unlock()

	confirmed, err := confirmer.ConfirmPrice(ctx, input)

	m.mu.Lock()
	m.inFlight = false

	if err != nil {
		if !errors.Is(err, ErrPriceConfirmation) {
			err = fmt.Errorf("%w: %w", ErrPriceConfirmation, err)
		}
		m.logEvent(zerolog.WarnLevel, action).Err(err).Msg("Price confirmation failed")
		return err
	}

	matched := confirmed.Equal(local)
	metrics.RecordPriceReconciliation(matched)
	if !matched {
		next := m.draft.Clone()
		corrected := model.NewPriceBreakdown(confirmed.BaseCost, confirmed.BindingCost, confirmed.DeliveryCost)
		next.PriceBreakdown = &corrected
		m.commitLocked(next)
		m.logEvent(zerolog.WarnLevel, action).
			Str("local_total", local.TotalCost.String()).
			Str("confirmed_total", corrected.TotalCost.String()).
			Msg("Local price corrected by server")
	}
	m.priceConfirmed = true
	return nil
}

func (m *Machine) uploadGuardLocked() error {
	var missing []string
	if m.draft.FileID == "" {
		missing = append(missing, "file_id")
	}
	if m.draft.PageCount <= 0 {
		missing = append(missing, "page_count")
	}
	if m.draft.PriceBreakdown == nil {
		missing = append(missing, "price_breakdown")
	}
	if len(missing) > 0 {
		return &GuardError{Missing: missing}
	}
	return nil
}

// SubmitCustomerInfo validates customer details, merges them into the draft
// and moves from UserInfo to Review. Invalid details are returned as
// model.FieldErrors and leave the draft untouched.
func (m *Machine) SubmitCustomerInfo(info model.CustomerInfo) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkStepLocked("submit_customer", StepUserInfo); err != nil {
		return Snapshot{}, err
	}

	clean, err := m.validator.Validate(info)
	if err != nil {
		m.recordLocked(StepReview, "refused")
		return m.snapshotLocked(), err
	}

	if err := m.moveLocked(StepReview); err != nil {
		return m.snapshotLocked(), err
	}
	next := m.draft.Clone()
	next.Customer = &clean
	m.commitLocked(next)
	return m.snapshotLocked(), nil
}

// Back returns to the previous editing step without discarding any data.
func (m *Machine) Back() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkStepLocked("back", StepUserInfo, StepReview); err != nil {
		return Snapshot{}, err
	}
	if err := m.moveLocked(m.step - 1); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// Submit sends the reviewed draft to the order API and moves to Payment.
// The submitted breakdown is frozen inside the draft's Submission. If the
// same order was already submitted and its payment has not failed, the
// earlier submission is reused. With a PriceConfirmer configured, a draft
// whose options changed since the last confirmation is confirmed again
// first.
func (m *Machine) Submit(ctx context.Context) (Snapshot, error) {
	const action = "submit"

	m.mu.Lock()
	if err := m.checkStepLocked(action, StepReview); err != nil {
		m.mu.Unlock()
		return Snapshot{}, err
	}
	if err := m.reviewGuardLocked(); err != nil {
		m.recordLocked(StepPayment, "refused")
		m.mu.Unlock()
		return Snapshot{}, err
	}
	if confirmer := m.deps.Confirmer; confirmer != nil && !m.priceConfirmed {
		if err := m.confirmPriceLocked(ctx, action, confirmer); err != nil {
			m.recordLocked(StepPayment, "error")
			defer m.mu.Unlock()
			return m.snapshotLocked(), err
		}
	}

	snapshot := DraftSnapshot{
		Draft:     m.draft.Clone(),
		Breakdown: *m.draft.PriceBreakdown,
		Customer:  *m.draft.Customer,
	}
	if m.submitted != nil && m.draft.Submission != nil &&
		m.draft.PaymentStatus != model.PaymentFailed && m.submitted.sameOrder(snapshot) {
		defer m.mu.Unlock()
		if err := m.moveLocked(StepPayment); err != nil {
			return m.snapshotLocked(), err
		}
		return m.snapshotLocked(), nil
	}

	submitter := m.deps.Submitter
	if submitter == nil {
		m.mu.Unlock()
		return Snapshot{}, fmt.Errorf("%w: no order submitter configured", ErrSubmission)
	}
	m.inFlight = true
	m.mu.Unlock()

	sub, err := submitter.SubmitOrder(ctx, snapshot)
	if err == nil && (sub.OrderNumber == "" || sub.PaymentReference == "") {
		err = fmt.Errorf("%w: response is missing the order number or payment reference", ErrSubmission)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		m.recordLocked(StepPayment, "error")
		if !errors.Is(err, ErrSubmission) {
			err = fmt.Errorf("%w: %w", ErrSubmission, err)
		}
		m.logEvent(zerolog.WarnLevel, action).Err(err).Msg("Order submission failed")
		return m.snapshotLocked(), err
	}

	sub.Breakdown = snapshot.Breakdown
	sub.TotalPrice = snapshot.Breakdown.SubmissionTotal()
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = m.now()
	}

	if err := m.moveLocked(StepPayment); err != nil {
		return m.snapshotLocked(), err
	}
	next := m.draft.Clone()
	next.Submission = &sub
	next.PaymentStatus = ""
	m.commitLocked(next)
	m.submitted = &snapshot

	m.logEvent(zerolog.InfoLevel, action).
		Str("order_number", sub.OrderNumber).
		Str("total", sub.TotalPrice.StringFixed(2)).
		Msg("Order submitted")
	return m.snapshotLocked(), nil
}

func (m *Machine) reviewGuardLocked() error {
	var missing []string
	if !m.draft.HasDocument() {
		missing = append(missing, "document")
	}
	if m.draft.PriceBreakdown == nil {
		missing = append(missing, "price_breakdown")
	}
	if m.draft.Customer == nil {
		missing = append(missing, "customer")
	}
	if len(missing) > 0 {
		return &GuardError{Missing: missing}
	}
	return nil
}

// CancelPayment leaves the payment page and returns to Review. The order
// number and payment reference stay attached to the draft.
func (m *Machine) CancelPayment() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkStepLocked("cancel_payment", StepPayment); err != nil {
		return Snapshot{}, err
	}
	if err := m.moveLocked(StepReview); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// CheckPayment asks for the payment status of the submitted order. A
// completed payment moves the flow to Confirmation. A pending payment leaves
// everything as it was so the check can be repeated. A failed payment is
// recorded and ends this payment attempt; later checks report it without
// calling out again.
func (m *Machine) CheckPayment(ctx context.Context) (model.PaymentResult, error) {
	const action = "check_payment"

	m.mu.Lock()
	if m.step == StepConfirmation && !m.inFlight {
		res := model.PaymentResult{Status: model.PaymentCompleted, OrderNumber: m.draft.OrderNumber()}
		m.mu.Unlock()
		return res, nil
	}
	if err := m.checkStepLocked(action, StepPayment); err != nil {
		m.mu.Unlock()
		return model.PaymentResult{}, err
	}
	if m.draft.PaymentStatus == model.PaymentFailed {
		res := model.PaymentResult{
			Status:      model.PaymentFailed,
			Message:     "payment failed; start a new order or submit again",
			OrderNumber: m.draft.OrderNumber(),
		}
		m.mu.Unlock()
		return res, nil
	}
	checker := m.deps.Payments
	if checker == nil {
		m.mu.Unlock()
		return model.PaymentResult{}, fmt.Errorf("%w: no payment checker configured", ErrPaymentCheck)
	}
	ref := m.draft.PaymentReference()
	m.inFlight = true
	m.mu.Unlock()

	res, err := checker.CheckPaymentStatus(ctx, ref)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false

	if err != nil {
		if !errors.Is(err, ErrPaymentCheck) {
			err = fmt.Errorf("%w: %w", ErrPaymentCheck, err)
		}
		m.logEvent(zerolog.WarnLevel, action).Err(err).Str("payment_reference", ref).Msg("Payment check failed")
		return model.PaymentResult{}, err
	}
	if res.OrderNumber == "" {
		res.OrderNumber = m.draft.OrderNumber()
	}

	switch res.Status {
	case model.PaymentCompleted:
		if err := m.moveLocked(StepConfirmation); err != nil {
			return model.PaymentResult{}, err
		}
		next := m.draft.Clone()
		next.PaymentStatus = model.PaymentCompleted
		m.commitLocked(next)
	case model.PaymentFailed:
		next := m.draft.Clone()
		next.PaymentStatus = model.PaymentFailed
		m.commitLocked(next)
		m.recordLocked(StepConfirmation, "payment_failed")
	case model.PaymentPending:
	default:
		return model.PaymentResult{}, fmt.Errorf("%w: unexpected status %q", ErrPaymentCheck, res.Status)
	}

	m.logEvent(zerolog.InfoLevel, action).
		Str("payment_reference", ref).
		Str("status", string(res.Status)).
		Msg("Payment status checked")
	return res, nil
}

// Reset discards the draft and starts over at Upload.
func (m *Machine) Reset() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inFlight {
		return Snapshot{}, refused(m.step, "reset", ErrTransitionInFlight)
	}
	from := m.step
	m.draft = model.NewOrderDraft()
	m.draft.PriceTableVersion = m.pricer.Table().Version
	m.submitted = nil
	m.priceConfirmed = false
	m.step = StepUpload
	m.updatedAt = m.now()
	metrics.RecordFlowTransition(from.String(), StepUpload.String(), "reset")
	m.logEvent(zerolog.InfoLevel, "reset").Str("from", from.String()).Msg("Order flow reset")
	return m.snapshotLocked(), nil
}

// Receipt builds the receipt of a confirmed order.
func (m *Machine) Receipt(now time.Time) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step != StepConfirmation {
		return Receipt{}, refused(m.step, "receipt", ErrInvalidTransition)
	}
	return newReceipt(m.draft, m.pricer.Table().Currency, now), nil
}

func (m *Machine) checkStepLocked(action string, allowed ...Step) error {
	if m.inFlight {
		return refused(m.step, action, ErrTransitionInFlight)
	}
	for _, s := range allowed {
		if m.step == s {
			return nil
		}
	}
	return refused(m.step, action, ErrInvalidTransition)
}

// checkEditLocked guards operations that change the order itself; those
// report ErrDraftLocked once the order is submitted.
func (m *Machine) checkEditLocked(action string, allowed bool) error {
	switch {
	case m.inFlight:
		return refused(m.step, action, ErrTransitionInFlight)
	case allowed:
		return nil
	case m.step.locked():
		return refused(m.step, action, ErrDraftLocked)
	default:
		return refused(m.step, action, ErrInvalidTransition)
	}
}

func (m *Machine) commitLocked(next model.OrderDraft) {
	m.draft = next
	m.updatedAt = m.now()
}

// moveLocked advances the flow along an edge of the transition table.
func (m *Machine) moveLocked(to Step) error {
	from := m.step
	if !CanTransition(from, to) {
		m.recordLocked(to, "refused")
		return refused(from, "transition", ErrInvalidTransition)
	}
	m.step = to
	m.updatedAt = m.now()
	metrics.RecordFlowTransition(from.String(), to.String(), "success")
	m.logEvent(zerolog.InfoLevel, "transition").
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Order flow advanced")
	return nil
}

func (m *Machine) recordLocked(to Step, result string) {
	metrics.RecordFlowTransition(m.step.String(), to.String(), result)
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		Step:      m.step,
		Draft:     m.draft.Clone(),
		InFlight:  m.inFlight,
		UpdatedAt: m.updatedAt,
	}
}

func (m *Machine) logEvent(level zerolog.Level, action string) *zerolog.Event {
	log := logger.ForSession(m.sessionID)
	return log.WithLevel(level).
		Str("action", action).
		Str("step", m.step.String())
}
