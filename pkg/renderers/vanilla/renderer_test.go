package vanilla

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/testsupport"
)

func renderPage(t *testing.T, r *Renderer, page render.Page) string {
	t.Helper()
	out, err := r.Render(context.Background(), page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func newRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func formPage(form model.FormConfig, mode model.Mode, snap render.Snapshot, env render.Env) render.Page {
	widgets := render.Widgets(form, snap, env, mode)
	return render.FormPage(form, mode, "/booking/"+form.ID, widgets)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected output to contain %q", fragment)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Errorf("expected output not to contain %q", fragment)
		}
	}
}

func TestRenderFormPage(t *testing.T) {
	form := testsupport.WeddingForm()
	form.Description = `Tell us <em>everything</em><script>alert(1)</script>`
	env := render.Env{PaymentQR: "https://cdn.example/qr.png"}

	html := renderPage(t, newRenderer(t), formPage(form, model.ModeEventBooking, render.Snapshot{}, env))

	assertContains(t, html,
		"<title>Wedding Photography</title>",
		`href="/assets/bookingform.css"`,
		`src="/assets/bookingform-upload.js" defer`,
		"--bf-primary-color: #2563eb;",
		"max-w-3xl",
		`rounded-lg"`,
		`<img src="https://cdn.example/logo.png"`,
		"Tell us <em>everything</em>",
		`action="/booking/wedding-2024"`,
		`<input type="text" id="fg-name" name="name"`,
		`<input type="email" id="fg-email" name="email"`,
		`<input type="tel" id="fg-phone" name="phone"`,
		`<input type="date" id="fg-date" name="date"`,
		`<input type="time" id="fg-start" name="start"`,
		`placeholder="Enter full name"`,
		`<h2 id="fg-h-contact"`,
		`<hr id="fg-hr-1"`,
		`<option value="Premium">Premium</option>`,
		`<span class="bf-currency`,
		`placeholder="0.00"`,
		"Deposits are <strong>non-refundable</strong>.",
		"Send me offers",
		`<img src="https://cdn.example/qr.png" alt="Payment QR Code"`,
		"Payment Information",
		"Please upload a screenshot of your payment confirmation",
		`name="payment_screenshot.file"`,
		">Submit Booking</button>",
		"Secured by FotosFolio",
	)
	assertNotContains(t, html, "<script>alert(1)</script>", `name="type"`, "data-first-invalid")
}

func TestRenderFormPageShowsErrorsAndFocus(t *testing.T) {
	form := testsupport.WeddingForm()
	snap := render.Snapshot{
		Values: model.Values{"email": model.String("not-an-email")},
		Errors: model.Errors{
			"name":  "This field is required",
			"email": "Please enter a valid email address",
		},
	}
	page := formPage(form, model.ModeEventBooking, snap, render.Env{FirstInvalid: "name"})
	page.FirstInvalid = "name"
	page.Notice = "Failed to submit booking"

	html := renderPage(t, newRenderer(t), page)

	assertContains(t, html,
		`data-first-invalid="name"`,
		`name="name" value="" placeholder="Enter full name" class="bf-input w-full px-4 py-3 border border-gray-300 rounded-md" aria-required="true" aria-invalid="true" aria-describedby="fg-name-error" autofocus>`,
		`<p id="fg-name-error" class="bf-error mt-1 text-sm text-red-500" role="alert">This field is required</p>`,
		`value="not-an-email"`,
		"Please enter a valid email address",
		"bf-field--invalid",
		`role="alert">Failed to submit booking</div>`,
	)
	if strings.Count(html, " autofocus") != 1 {
		t.Fatalf("expected exactly one autofocus attribute")
	}
}

func TestRenderGeneralModeCarriesHiddenTypeAndSkipsPayment(t *testing.T) {
	form := testsupport.WeddingForm()
	html := renderPage(t, newRenderer(t), formPage(form, model.ModeGeneralInformation, render.Snapshot{}, render.Env{}))

	assertContains(t, html, `<input type="hidden" name="type" value="general">`, `<script src="/assets/bookingform.js" defer></script>`)
	assertNotContains(t, html, "Payment Information", "payment_screenshot", "bookingform-upload.js", `id="fg-h-pay"`)
}

func TestRenderUploadEmitsConfiguredLimit(t *testing.T) {
	form := testsupport.WeddingForm()
	env := render.Env{MaxUploadBytes: 2 << 20}

	html := renderPage(t, newRenderer(t), formPage(form, model.ModeEventBooking, render.Snapshot{}, env))
	assertContains(t, html,
		`data-max-bytes="2097152" data-max-size="2MB"`,
		"PNG, JPG, JPEG (Max. 2MB)",
		`<script src="/assets/bookingform.js" defer></script>`,
		`<script src="/assets/bookingform-upload.js" defer></script>`,
	)
	assertNotContains(t, html, "Max. 5MB")
}

func TestRenderSubmittingLabel(t *testing.T) {
	form := testsupport.WeddingForm()
	page := formPage(form, model.ModeGeneralInformation, render.Snapshot{}, render.Env{})
	page.Submitting = true

	html := renderPage(t, newRenderer(t), page)
	assertContains(t, html, `disabled aria-busy="true">Submitting...</button>`)
}

func TestRenderThemeWidthAndButton(t *testing.T) {
	form := testsupport.WeddingForm()
	form.Theme.FormWidth = model.WidthWide
	form.Theme.ButtonStyle = model.ButtonSquare
	form.Theme.PrimaryColor = "#ff0000"

	html := renderPage(t, newRenderer(t), formPage(form, model.ModeGeneralInformation, render.Snapshot{}, render.Env{}))
	assertContains(t, html, "max-w-5xl", "rounded-none", "--bf-primary-color: #ff0000;", `data-theme-variant="wide"`)
}

func TestRenderCheckedToggleAndSelectedOption(t *testing.T) {
	form := testsupport.WeddingForm()
	snap := render.Snapshot{Values: model.Values{
		"terms":   model.Bool(true),
		"package": model.String("Premium"),
	}}
	html := renderPage(t, newRenderer(t), formPage(form, model.ModeGeneralInformation, snap, render.Env{}))
	assertContains(t, html,
		`<option value="Premium" selected>Premium</option>`,
		`name="terms" value="true" class="mt-1 h-4 w-4 rounded border-gray-300" checked`,
	)
}

func TestRenderUploadStates(t *testing.T) {
	form := testsupport.WeddingForm()
	snap := render.Snapshot{Values: model.Values{model.PaymentScreenshotID: model.String("https://cdn.example/shot.png")}}
	env := render.Env{
		PaymentQRErr: "Failed to load QR code",
		UploadErrors: map[string]string{model.PaymentScreenshotID: "File size must be less than 5MB"},
	}
	html := renderPage(t, newRenderer(t), formPage(form, model.ModeEventBooking, snap, env))
	assertContains(t, html,
		`<input type="hidden" name="payment_screenshot" value="https://cdn.example/shot.png" data-upload-value>`,
		"Payment screenshot uploaded successfully",
		`data-upload-error>File size must be less than 5MB</p>`,
		`<div class="text-red-500 text-sm" role="alert">Failed to load QR code</div>`,
		`data-owner-id="owner-42"`,
	)
}

func TestRenderErrorPage(t *testing.T) {
	html := renderPage(t, newRenderer(t), render.ErrorPage("Form not found", "https://fotosfolio.com"))
	assertContains(t, html,
		"<title>Form Not Found</title>",
		`<p class="bf-error-message text-gray-600 mb-8">Form not found</p>`,
		`<a href="https://fotosfolio.com"`,
		"Go to FotosFolio",
	)

	html = renderPage(t, newRenderer(t), render.ErrorPage("", ""))
	assertContains(t, html, "Error Loading Form", "Unable to load the form. Please try again later.")
	assertNotContains(t, html, "Go to FotosFolio")
}

func TestRenderSuccessPage(t *testing.T) {
	html := renderPage(t, newRenderer(t), render.SuccessPage("bk-7", "Smith Wedding", "https://fotosfolio.com"))
	assertContains(t, html,
		"Booking Submitted!",
		"Your booking request has been received successfully.",
		"<span>bk-7</span>",
		"Smith Wedding",
		"Visit FotosFolio",
	)
}

func TestRenderEscapesOperatorText(t *testing.T) {
	form := testsupport.WeddingForm()
	form.EventName = `<b>Gala</b>`
	form.Elements = []model.FormElement{{ID: "n", Type: model.ElementText, Label: `<i>Name</i>`}}

	html := renderPage(t, newRenderer(t), formPage(form, model.ModeGeneralInformation, render.Snapshot{}, render.Env{}))
	assertContains(t, html, "&lt;b&gt;Gala&lt;/b&gt;", "&lt;i&gt;Name&lt;/i&gt;")
	assertNotContains(t, html, "<b>Gala</b>")
}

func TestRenderUsesThemeSelectorOverlay(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{Manifest: &theme.Manifest{
		Name:   ThemeName,
		Tokens: map[string]string{TokenPrimary: "#111111"},
		Assets: theme.Assets{Prefix: "https://cdn.example/theme"},
	}}}
	form := testsupport.WeddingForm()
	html := renderPage(t, newRenderer(t, WithThemeSelector(selector)), formPage(form, model.ModeGeneralInformation, render.Snapshot{}, render.Env{}))

	if len(selector.calls) != 1 || selector.calls[0] != "bookingform/medium" {
		t.Fatalf("selector calls = %v", selector.calls)
	}
	assertContains(t, html, "--bf-primary-color: #111111;", `href="https://cdn.example/theme/bookingform.css"`)
}

func TestRenderFallsBackWhenSelectorFails(t *testing.T) {
	selector := &stubThemeSelector{err: errNoTheme}
	form := testsupport.WeddingForm()
	html := renderPage(t, newRenderer(t, WithThemeSelector(selector)), formPage(form, model.ModeGeneralInformation, render.Snapshot{}, render.Env{}))
	assertContains(t, html, "--bf-primary-color: #2563eb;")
}

func TestRenderAssetPrefix(t *testing.T) {
	form := testsupport.WeddingForm()
	html := renderPage(t, newRenderer(t, WithAssetPrefix("/static/bf/")), formPage(form, model.ModeEventBooking, render.Snapshot{}, render.Env{}))
	assertContains(t, html, `href="/static/bf/bookingform.css"`, `src="/static/bf/bookingform-upload.js"`)
}

func TestRenderRejectsUnknownPageKind(t *testing.T) {
	if _, err := newRenderer(t).Render(context.Background(), render.Page{Kind: "bogus"}); err == nil {
		t.Fatalf("expected error for unknown page kind")
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRenderer(t).Render(ctx, render.ErrorPage("", "")); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSanitizeRichText(t *testing.T) {
	got := SanitizeRichText(`<p onclick="x()">Hi <a href="javascript:alert(1)">there</a></p>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<p>Hi") {
		t.Fatalf("safe markup stripped: %q", got)
	}
}
