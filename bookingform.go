// Package bookingform renders booking forms described by the FotosFolio
// booking API and submits the collected answers back to it.
package bookingform

import (
	"context"
	"fmt"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/client"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/tui"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla"
	"github.com/fotosfolio/go-bookingform/pkg/state"
)

// Session is one opened form: the answer controller plus the payment QR
// resolved for its owner and the upload size limit of the API client.
type Session struct {
	Controller     *state.Controller
	PaymentQR      string
	PaymentQRErr   string
	MaxUploadBytes int64
}

// Open loads templateID and prepares a session in mode. Inactive forms fail
// with apierrors.ErrFormInactive. A missing payment QR is not an error; its
// message is kept for the QR widget.
func Open(ctx context.Context, api *client.Client, templateID string, mode model.Mode, opts ...state.Option) (*Session, error) {
	if api == nil {
		return nil, fmt.Errorf("bookingform: open: api client is nil")
	}
	form, err := api.Forms().Load(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !form.IsActive {
		return nil, fmt.Errorf("bookingform: open %s: %w", templateID, apierrors.ErrFormInactive)
	}

	sess := &Session{
		Controller:     state.New(form, mode, api.Submissions(), opts...),
		MaxUploadBytes: api.MaxUploadBytes(),
	}
	if !mode.General() {
		qr, err := api.PaymentQR().Fetch(ctx, form.OwnerID)
		if err != nil {
			sess.PaymentQRErr = apierrors.Message(err)
		}
		sess.PaymentQR = qr
	}
	return sess, nil
}

// Env returns the render environment of the session.
func (s *Session) Env(uploadErrors map[string]string, firstInvalid string) render.Env {
	return render.Env{
		OwnerID:        s.Controller.Form().OwnerID,
		PaymentQR:      s.PaymentQR,
		PaymentQRErr:   s.PaymentQRErr,
		UploadErrors:   uploadErrors,
		FirstInvalid:   firstInvalid,
		MaxUploadBytes: s.MaxUploadBytes,
	}
}

// Page builds the form screen from the current answers.
func (s *Session) Page(action string, env render.Env) render.Page {
	values, errs, phase := s.Controller.Snapshot()
	form := s.Controller.Form()
	mode := s.Controller.Mode()

	widgets := render.Widgets(form, render.Snapshot{Values: values, Errors: errs}, env, mode)
	page := render.FormPage(form, mode, action, widgets)
	page.FirstInvalid = env.FirstInvalid
	page.Submitting = phase == state.PhaseSubmitting
	return page
}

// NewRenderers returns a registry holding the HTML renderer, which is the
// default, and the terminal renderer.
func NewRenderers(htmlOpts []vanilla.Option, termOpts []tui.Option) (*render.Registry, error) {
	html, err := vanilla.New(htmlOpts...)
	if err != nil {
		return nil, err
	}
	term, err := tui.New(termOpts...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	if err := registry.Register(term); err != nil {
		return nil, err
	}
	return registry, nil
}

// RenderForm opens templateID and renders its form screen. When loading
// fails the error screen is rendered instead and the load error returned with
// it.
func RenderForm(ctx context.Context, api *client.Client, renderer render.Renderer, templateID string, mode model.Mode, action, homeURL string) ([]byte, error) {
	sess, loadErr := Open(ctx, api, templateID, mode)
	if loadErr != nil {
		out, err := renderer.Render(ctx, render.ErrorPage(apierrors.Message(loadErr), homeURL))
		if err != nil {
			return nil, err
		}
		return out, loadErr
	}
	page := sess.Page(action, sess.Env(nil, ""))
	page.HomeURL = homeURL
	return renderer.Render(ctx, page)
}
