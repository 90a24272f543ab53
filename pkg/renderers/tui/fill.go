package tui

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/client"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/state"
	"github.com/fotosfolio/go-bookingform/pkg/validation"
)

// UploadHelp is shown under image prompts.
const UploadHelp = "Path to an image file, leave empty to skip"

// Fill prompts for every visible field of ctrl's form and submits. A rejected
// submit re-prompts only the invalid fields before trying again, up to the
// configured number of rounds. Gateway failures are returned with the
// collected answers kept in ctrl.
func (r *Renderer) Fill(ctx context.Context, ctrl *state.Controller, env render.Env) (client.Receipt, error) {
	if ctrl == nil {
		return client.Receipt{}, errors.New("tui: controller is nil")
	}
	form := ctrl.Form()
	if desc := plainText(form.Description); desc != "" || form.EventName != "" {
		if err := r.info(ctx, joinNonEmpty("\n", form.EventName, desc)); err != nil {
			return client.Receipt{}, err
		}
	}

	var pending model.Errors
	for round := 1; ; round++ {
		values, errs, _ := ctrl.Snapshot()
		env.FirstInvalid = ""
		widgets := render.Widgets(form, render.Snapshot{Values: values, Errors: errs}, env, ctrl.Mode())

		prompted := 0
		for _, w := range widgets {
			if pending != nil {
				if _, ok := pending[w.Base().ID]; !ok {
					continue
				}
			}
			if err := r.promptWidget(ctx, ctrl, w, env.OwnerID); err != nil {
				return client.Receipt{}, err
			}
			prompted++
		}

		receipt, err := ctrl.Submit(ctx)
		var verr *state.ValidationError
		if !errors.As(err, &verr) {
			if err != nil {
				_ = r.info(ctx, r.theme.ErrorPrefix+apierrors.Message(err))
				return client.Receipt{}, err
			}
			return receipt, nil
		}
		if round >= r.maxRounds || (pending != nil && prompted == 0) {
			return client.Receipt{}, err
		}
		if err := r.info(ctx, fmt.Sprintf("%s%d field(s) need attention", r.theme.ErrorPrefix, len(verr.Errors))); err != nil {
			return client.Receipt{}, err
		}
		pending = verr.Errors
	}
}

func (r *Renderer) promptWidget(ctx context.Context, ctrl *state.Controller, w render.Widget, ownerID string) error {
	base := w.Base()
	if base.Error != "" {
		if err := r.info(ctx, r.theme.ErrorPrefix+base.Label+": "+base.Error); err != nil {
			return err
		}
	}
	label := promptLabel(base)

	switch v := w.(type) {
	case render.Heading:
		return r.info(ctx, "\n## "+v.Label)
	case render.Divider:
		return r.info(ctx, "---")
	case render.QRCode:
		switch {
		case v.URL != "":
			return r.info(ctx, fmt.Sprintf("%s: %s\n%s", v.Label, v.URL, v.Hint))
		case v.QRError != "":
			return r.info(ctx, fmt.Sprintf("%s: %s%s", v.Label, r.theme.ErrorPrefix, v.QRError))
		default:
			return nil
		}
	case render.TextInput:
		return r.promptText(ctx, ctrl, base, label, v.Placeholder, v.Value)
	case render.NumberInput:
		return r.promptText(ctx, ctrl, base, label, v.Placeholder, v.Value)
	case render.TextArea:
		answer, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: v.Value, Help: v.Placeholder})
		if err != nil {
			return err
		}
		ctrl.OnFieldChange(base.ID, model.String(answer))
		return nil
	case render.Choice:
		options := append([]string{v.Placeholder}, v.Options...)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: max(indexOf(options, v.Value), 0),
		})
		if err != nil {
			return err
		}
		answer := ""
		if idx > 0 && idx < len(options) {
			answer = options[idx]
		}
		ctrl.OnFieldChange(base.ID, model.String(answer))
		return nil
	case render.Toggle:
		if text := plainText(v.Text); text != "" {
			if err := r.info(ctx, text); err != nil {
				return err
			}
		}
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label + " " + v.Caption, Default: v.Checked})
		if err != nil {
			return err
		}
		ctrl.OnFieldChange(base.ID, model.Bool(answer))
		return nil
	case render.Upload:
		return r.promptUpload(ctx, ctrl, v, label, ownerID)
	default:
		return fmt.Errorf("tui: unsupported widget %T", w)
	}
}

func (r *Renderer) promptText(ctx context.Context, ctrl *state.Controller, base render.Common, label, help, current string) error {
	answer, err := r.driver.Input(ctx, InputConfig{
		Message: label,
		Default: current,
		Help:    help,
		Validator: func(raw string) error {
			if msg := validation.ValidateField(base.Type, render.ParseValue(base.Type, raw), base.Required, nil); msg != "" {
				return errors.New(msg)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	ctrl.OnFieldChange(base.ID, render.ParseValue(base.Type, answer))
	return nil
}

// promptUpload asks for a file path until an upload succeeds or the user
// leaves the answer empty. A failed upload clears the field.
func (r *Renderer) promptUpload(ctx context.Context, ctrl *state.Controller, w render.Upload, label, ownerID string) error {
	if w.Hint != "" {
		if err := r.info(ctx, w.Hint); err != nil {
			return err
		}
	}
	if ownerID == "" {
		ownerID = w.OwnerID
	}
	for {
		path, err := r.driver.Input(ctx, InputConfig{Message: label, Help: UploadHelp})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}
		if r.uploader == nil {
			return ErrNoUploader
		}

		url, err := r.uploadFile(ctx, ownerID, path)
		if err != nil {
			r.logger.Warn("image upload failed", "field", w.ID, "path", path, "error", err)
			ctrl.OnFieldChange(w.ID, model.String(""))
			if err := r.info(ctx, r.theme.ErrorPrefix+uploadMessage(err)); err != nil {
				return err
			}
			continue
		}
		ctrl.OnFieldChange(w.ID, model.String(url))
		return r.info(ctx, r.theme.InfoPrefix+"Uploaded "+filepath.Base(path))
	}
}

func (r *Renderer) uploadFile(ctx context.Context, ownerID, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("tui: open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("tui: stat %s: %w", path, err)
	}
	return r.uploader.Upload(ctx, ownerID, client.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:        info.Size(),
		Body:        f,
	})
}

func uploadMessage(err error) string {
	var defined apierrors.DefinedError
	if errors.As(err, &defined) {
		return defined.Err
	}
	if errors.Is(err, os.ErrNotExist) {
		return "File not found"
	}
	return apierrors.ErrUploadFailed.Err
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return r.driver.Info(ctx, msg)
}

func promptLabel(c render.Common) string {
	if c.Required {
		return c.Label + " *"
	}
	return c.Label
}
