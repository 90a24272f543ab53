package bookingform

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/client"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/tui"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla"
	"github.com/fotosfolio/go-bookingform/pkg/testsupport"
)

func TestOpenResolvesPaymentQR(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())
	api.SetPaymentQR("owner-42", "https://cdn.test/qr.png")

	sess, err := Open(context.Background(), client.New(api.URL), "wedding-2024", model.ModeEventBooking)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got := sess.Env(nil, "email")
	want := render.Env{OwnerID: "owner-42", PaymentQR: "https://cdn.test/qr.png", FirstInvalid: "email"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenGeneralSkipsPaymentQR(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())

	sess, err := Open(context.Background(), client.New(api.URL), "wedding-2024", model.ModeGeneralInformation)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sess.PaymentQR != "" || sess.PaymentQRErr != "" {
		t.Fatalf("general mode should not look up a QR: %+v", sess)
	}
	page := sess.Page("/booking/wedding-2024", sess.Env(nil, ""))
	for _, w := range page.Widgets {
		if w.Base().ID == model.PaymentScreenshotID {
			t.Fatalf("general page should not carry the payment upload")
		}
	}
	if diff := cmp.Diff([]render.HiddenField{{Name: "type", Value: "general"}}, page.Hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenMissingQRKeepsMessage(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())

	sess, err := Open(context.Background(), client.New(api.URL), "wedding-2024", model.ModeEventBooking)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if sess.PaymentQRErr != apierrors.ErrQRUnavailable.Err {
		t.Fatalf("PaymentQRErr = %q", sess.PaymentQRErr)
	}
}

func TestOpenRejectsInactiveForm(t *testing.T) {
	form := testsupport.WeddingForm()
	form.IsActive = false
	api := testsupport.NewBookingAPI(t, form)

	_, err := Open(context.Background(), client.New(api.URL), form.ID, model.ModeEventBooking)
	if !errors.Is(err, apierrors.ErrFormInactive) {
		t.Fatalf("expected ErrFormInactive, got %v", err)
	}
}

func TestRenderFormNotFoundRendersErrorScreen(t *testing.T) {
	api := testsupport.NewBookingAPI(t)
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla: %v", err)
	}

	out, err := RenderForm(context.Background(), client.New(api.URL), renderer, "missing", model.ModeEventBooking, "/booking/missing", "https://fotosfolio.com")
	if !errors.Is(err, apierrors.ErrFormNotFound) {
		t.Fatalf("expected ErrFormNotFound, got %v", err)
	}
	if apierrors.Status(err) != http.StatusNotFound {
		t.Fatalf("status = %d", apierrors.Status(err))
	}
	if !strings.Contains(string(out), render.NotFoundTitle) {
		t.Fatalf("expected error screen, got:\n%s", out)
	}
}

func TestRenderFormHTML(t *testing.T) {
	api := testsupport.NewBookingAPI(t, testsupport.WeddingForm())
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla: %v", err)
	}

	out, err := RenderForm(context.Background(), client.New(api.URL), renderer, "wedding-2024", model.ModeEventBooking, "/booking/wedding-2024", "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"Wedding Photography", render.SubmitLabel, `id="fg-email"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestNewRenderersDefaultsToHTML(t *testing.T) {
	registry, err := NewRenderers(nil, []tui.Option{tui.WithOutputFormat(tui.OutputFormatJSON)})
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	if diff := cmp.Diff([]string{tui.Name, vanilla.Name}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
	def, err := registry.Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if def.Name() != vanilla.Name {
		t.Fatalf("default = %q", def.Name())
	}
}

func TestEmbeddedFilesystems(t *testing.T) {
	if _, err := fs.ReadFile(AssetsFS(), vanilla.StylesheetName); err != nil {
		t.Fatalf("stylesheet: %v", err)
	}
	if _, err := fs.ReadFile(AssetsFS(), vanilla.UploadScriptName); err != nil {
		t.Fatalf("upload script: %v", err)
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("form template: %v", err)
	}
}
