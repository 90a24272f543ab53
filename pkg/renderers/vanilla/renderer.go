package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	rendertemplate "github.com/fotosfolio/go-bookingform/pkg/render/template"
	gotemplate "github.com/fotosfolio/go-bookingform/pkg/render/template/gotemplate"
	"github.com/fotosfolio/go-bookingform/pkg/renderers/vanilla/components"
)

// Name is the registry name of the HTML renderer.
const Name = "vanilla"

// DefaultAssetPrefix is where the embedded assets are expected to be served.
const DefaultAssetPrefix = "/assets"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	selector         theme.ThemeSelector
	assetPrefix      string
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Templates missing
// from the directory fall back to the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithThemeSelector consults selector for an operator theme layered over the
// form's own theme. The selector is asked for ThemeName and the form width
// variant.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		cfg.selector = selector
	}
}

// WithAssetPrefix sets the URL prefix the embedded assets are served under.
func WithAssetPrefix(prefix string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(prefix); trimmed != "" {
			cfg.assetPrefix = trimmed
		}
	}
}

// WithLogger sets the logger used for theme fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer draws pages as server side HTML.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	selector    theme.ThemeSelector
	assetPrefix string
	logger      *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		assetPrefix: DefaultAssetPrefix,
		logger:      slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		opts := []gotemplate.Option{
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		}
		if cfg.templateDir != "" {
			opts = append(opts, gotemplate.WithBaseDir(cfg.templateDir))
		}
		engine, err := gotemplate.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		selector:    cfg.selector,
		assetPrefix: cfg.assetPrefix,
		logger:      cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws page as a complete HTML document.
func (r *Renderer) Render(ctx context.Context, page render.Page) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	themeCfg, err := r.resolveTheme(page.Form.Theme)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: resolve theme: %w", err)
	}

	view, err := r.buildView(page, themeCfg)
	if err != nil {
		return nil, err
	}

	body, err := r.templates.RenderTemplate("templates/"+string(page.Kind)+".tmpl", map[string]any{"page": view})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render %s page: %w", page.Kind, err)
	}
	result, err := r.templates.RenderTemplate("templates/document.tmpl", map[string]any{
		"page": view,
		"body": body,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render document: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) resolveTheme(t model.Theme) (*theme.RendererConfig, error) {
	if t == (model.Theme{}) {
		t = model.DefaultTheme()
	}
	selection := &theme.Selection{
		Theme:    ThemeName,
		Variant:  VariantFor(t),
		Manifest: Manifest(t, r.assetPrefix),
	}
	if r.selector != nil {
		operator, err := r.selector.Select(ThemeName, selection.Variant)
		if err != nil {
			r.logger.Warn("theme selection failed, using form theme", "theme", ThemeName, "variant", selection.Variant, "error", err)
		} else {
			selection = overlay(selection, operator)
		}
	}
	return RendererConfig(selection)
}

type pageView struct {
	Kind    string      `json:"kind"`
	Title   string      `json:"title"`
	Form    formView    `json:"form"`
	Theme   themeView   `json:"theme"`
	Failure failureView `json:"failure"`
	Receipt receiptView `json:"receipt"`

	Action       string       `json:"action"`
	Fields       []string     `json:"fields"`
	Hidden       []hiddenView `json:"hidden"`
	Submitting   bool         `json:"submitting"`
	SubmitLabel  string       `json:"submitLabel"`
	Notice       string       `json:"notice"`
	FirstInvalid string       `json:"firstInvalid"`

	HomeURL     string       `json:"homeUrl"`
	HomeLabel   string       `json:"homeLabel"`
	Footer      string       `json:"footer"`
	Stylesheets []string     `json:"stylesheets"`
	Scripts     []scriptView `json:"scripts"`
}

type formView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo"`
	General     bool   `json:"general"`
}

type themeView struct {
	Name         string `json:"name"`
	Variant      string `json:"variant"`
	CSSVarsStyle string `json:"cssVarsStyle"`
	WidthClass   string `json:"widthClass"`
	ButtonClass  string `json:"buttonClass"`
}

type failureView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type receiptView struct {
	BookingID string `json:"bookingId"`
	EventName string `json:"eventName"`
	Lead      string `json:"lead"`
	Follow    string `json:"follow"`
	CTA       string `json:"cta"`
}

type hiddenView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type scriptView struct {
	Src    string `json:"src"`
	Inline string `json:"inline"`
	Defer  bool   `json:"defer"`
	Module bool   `json:"module"`
}

func (r *Renderer) buildView(page render.Page, cfg *theme.RendererConfig) (pageView, error) {
	view := pageView{
		Kind: string(page.Kind),
		Theme: themeView{
			Name:         cfg.Theme,
			Variant:      cfg.Variant,
			CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
			WidthClass:   tokenOr(cfg.Tokens, TokenWidthClass, WidthClass(model.WidthMedium)),
			ButtonClass:  tokenOr(cfg.Tokens, TokenButtonClass, ButtonClass(model.ButtonRounded)),
		},
		HomeURL:     page.HomeURL,
		HomeLabel:   render.HomeLabel,
		Footer:      render.FooterText,
		Stylesheets: []string{cfg.AssetURL(AssetStylesheet)},
	}

	switch page.Kind {
	case render.PageForm:
		view.Title = page.Form.EventName
		view.Form = formView{
			ID:          page.Form.ID,
			Name:        page.Form.EventName,
			Description: SanitizeRichText(page.Form.Description),
			Logo:        page.Form.Logo,
			General:     page.Mode.General(),
		}
		view.Action = page.Action
		view.Submitting = page.Submitting
		view.SubmitLabel = render.SubmitLabel
		if page.Submitting {
			view.SubmitLabel = render.SubmittingLabel
		}
		view.Notice = page.Notice
		view.FirstInvalid = page.FirstInvalid
		for _, h := range page.Hidden {
			view.Hidden = append(view.Hidden, hiddenView{Name: h.Name, Value: h.Value})
		}

		fields := newComponentRenderer(r.templates, r.registry, cfg.Partials, nil)
		for _, w := range page.Widgets {
			markup, err := fields.render(w)
			if err != nil {
				return pageView{}, fmt.Errorf("vanilla renderer: %w", err)
			}
			view.Fields = append(view.Fields, markup)
		}
		stylesheets, scripts := fields.assets()
		for _, href := range stylesheets {
			view.Stylesheets = append(view.Stylesheets, cfg.AssetURL(href))
		}
		view.Scripts = append(view.Scripts, scriptView{Src: cfg.AssetURL(AssetForm), Defer: true})
		for _, s := range scripts {
			src := s.Src
			if src != "" {
				src = cfg.AssetURL(src)
			}
			view.Scripts = append(view.Scripts, scriptView{Src: src, Inline: s.Inline, Defer: s.Defer, Module: s.Module})
		}
	case render.PageError:
		view.Title = page.Failure.Title
		view.Failure = failureView{Title: page.Failure.Title, Message: page.Failure.Message}
	case render.PageSuccess:
		view.Title = render.SuccessTitle
		view.Receipt = receiptView{
			BookingID: page.Receipt.BookingID,
			EventName: page.Receipt.EventName,
			Lead:      render.SuccessLead,
			Follow:    render.SuccessFollow,
			CTA:       render.SuccessHomeCTA,
		}
	default:
		return pageView{}, fmt.Errorf("vanilla renderer: unknown page kind %q", page.Kind)
	}
	return view, nil
}

func tokenOr(tokens map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(tokens[key]); v != "" {
		return v
	}
	return fallback
}
