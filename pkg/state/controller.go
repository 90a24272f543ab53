// Package state owns the per-session answers, validation errors and submit
// lifecycle of one booking form.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fotosfolio/go-bookingform/pkg/client"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/payload"
	"github.com/fotosfolio/go-bookingform/pkg/validation"
)

// Phase is the submit lifecycle stage.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

func (p Phase) String() string {
	if p == PhaseSubmitting {
		return "submitting"
	}
	return "idle"
}

// Gateway delivers a transformed payload to the booking API.
type Gateway interface {
	Submit(ctx context.Context, mode model.Mode, body payload.Payload) (client.Receipt, error)
}

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission has not finished.
	ErrSubmitInFlight = errors.New("state: submission already in flight")
	// ErrNoGateway is returned when the controller was built without a gateway.
	ErrNoGateway = errors.New("state: gateway is not configured")
)

// ValidationError reports the failing fields of a rejected submit.
type ValidationError struct {
	Errors       model.Errors
	FirstInvalid string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("state: %d invalid field(s), first %q", len(e.Errors), e.FirstInvalid)
}

// Option customises a Controller.
type Option func(*Controller)

// WithTransformer overrides the payload transformer.
func WithTransformer(t *payload.Transformer) Option {
	return func(c *Controller) {
		if t != nil {
			c.transformer = t
		}
	}
}

// WithLogger overrides slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValues seeds the controller with prefilled answers.
func WithValues(values model.Values) Option {
	return func(c *Controller) {
		for id, v := range values {
			c.values[id] = v
		}
	}
}

// Controller holds the answers of one form session. All mutations are
// serialised by mu; the gateway call runs outside the lock so edits may
// continue while a submission is in flight.
type Controller struct {
	mu     sync.Mutex
	values model.Values
	errors model.Errors
	phase  Phase

	form        model.FormConfig
	mode        model.Mode
	gateway     Gateway
	transformer *payload.Transformer
	logger      *slog.Logger
}

// New constructs a Controller for form in mode.
func New(form model.FormConfig, mode model.Mode, gateway Gateway, opts ...Option) *Controller {
	if mode == "" {
		mode = model.ModeEventBooking
	}
	c := &Controller{
		values:      model.Values{},
		errors:      model.Errors{},
		form:        form,
		mode:        mode,
		gateway:     gateway,
		transformer: payload.New(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Form returns the descriptor the controller was built for.
func (c *Controller) Form() model.FormConfig { return c.form }

// Mode returns the submission mode.
func (c *Controller) Mode() model.Mode { return c.mode }

// OnFieldChange stores v under id and clears any error recorded for id. It
// never validates.
func (c *Controller) OnFieldChange(id string, v model.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[id] = v
	delete(c.errors, id)
}

// Values returns a copy of the collected answers.
func (c *Controller) Values() model.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// Errors returns a copy of the current validation errors.
func (c *Controller) Errors() model.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errors.Clone()
}

// Phase reports the submit lifecycle stage.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Snapshot returns values, errors and phase read under a single lock.
func (c *Controller) Snapshot() (model.Values, model.Errors, Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone(), c.errors.Clone(), c.phase
}

// Field returns the handle widgets use to read and write one answer.
func (c *Controller) Field(id string) Field {
	return Field{id: id, c: c}
}

// Submit validates the answers and, when valid, hands the transformed payload
// to the gateway. Validation failures replace the error map and never reach
// the gateway. The phase returns to idle on every outcome and answers are
// retained on failure.
func (c *Controller) Submit(ctx context.Context) (client.Receipt, error) {
	c.mu.Lock()
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return client.Receipt{}, ErrSubmitInFlight
	}
	if c.gateway == nil {
		c.mu.Unlock()
		return client.Receipt{}, ErrNoGateway
	}

	errs := validation.ValidateSubmission(c.values, c.form.Elements, c.mode)
	if len(errs) > 0 {
		c.errors = errs
		verr := &ValidationError{
			Errors:       errs.Clone(),
			FirstInvalid: validation.FirstInvalid(errs, c.form.Elements),
		}
		c.mu.Unlock()
		return client.Receipt{}, verr
	}

	c.errors = model.Errors{}
	c.phase = PhaseSubmitting
	body := c.transformer.Transform(payload.Input{
		Mode:      c.mode,
		Values:    c.values.Clone(),
		Elements:  c.form.Elements,
		EventName: c.form.EventName,
		OwnerID:   c.form.OwnerID,
	})
	c.mu.Unlock()

	receipt, err := c.gateway.Submit(ctx, c.mode, body)

	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("booking submission failed", "form_id", c.form.ID, "mode", string(c.mode), "error", err)
		return client.Receipt{}, fmt.Errorf("state: submit: %w", err)
	}
	c.logger.Info("booking submitted", "form_id", c.form.ID, "booking_id", receipt.BookingID)
	return receipt, nil
}
