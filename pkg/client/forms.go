package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// DefaultEventType is assigned to every loaded form.
const DefaultEventType = "general"

// formResponse mirrors GET /event-management/custom-forms/{templateId}.
type formResponse struct {
	ID          string `json:"id" validate:"required"`
	FormName    string `json:"formName" validate:"required"`
	IsDefault   bool   `json:"isDefault"`
	IsActive    *bool  `json:"isActive,omitempty"`
	Description string `json:"description,omitempty"`
	FormFields  struct {
		Fields []model.FormElement `json:"fields" validate:"dive"`
	} `json:"formFields"`
	Logo      string `json:"logo,omitempty"`
	UserID    string `json:"userId" validate:"required"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Forms loads form descriptors.
type Forms struct {
	c *Client
}

// Load fetches the descriptor for templateID and normalises it into a
// FormConfig carrying the default theme.
func (f *Forms) Load(ctx context.Context, templateID string) (model.FormConfig, error) {
	templateID = strings.TrimSpace(templateID)
	if templateID == "" {
		return model.FormConfig{}, fmt.Errorf("client: load form: %w", apierrors.ErrFormNotFound)
	}

	var resp formResponse
	path := "/event-management/custom-forms/" + url.PathEscape(templateID)
	if err := f.c.getJSON(ctx, "load form", path, &resp); err != nil {
		return model.FormConfig{}, err
	}

	if err := f.c.validate.Struct(resp); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace())
			}
			f.c.logger.Warn("form descriptor failed validation", "template_id", templateID, "fields", fields)
		}
		return model.FormConfig{}, fmt.Errorf("client: load form: %w", apierrors.ErrFormMalformed)
	}

	return normaliseForm(resp), nil
}

func normaliseForm(resp formResponse) model.FormConfig {
	active := true
	if resp.IsActive != nil {
		active = *resp.IsActive
	}
	elements := resp.FormFields.Fields
	if elements == nil {
		elements = []model.FormElement{}
	}
	return model.FormConfig{
		ID:          resp.ID,
		EventName:   resp.FormName,
		EventType:   DefaultEventType,
		Description: resp.Description,
		Logo:        resp.Logo,
		Theme:       model.DefaultTheme(),
		Elements:    elements,
		IsActive:    active,
		IsDefault:   resp.IsDefault,
		OwnerID:     resp.UserID,
	}
}
