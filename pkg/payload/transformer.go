package payload

import (
	"strings"
	"time"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

const (
	// eventHour is the UTC hour combined with the selected booking date.
	eventHour = 10

	// TimestampLayout matches the millisecond precision ISO instant the
	// booking API stores.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Payload is the request body sent to the booking API. EventName and EventDate
// are only populated in event booking mode.
type Payload struct {
	EventName    string                 `json:"eventName,omitempty"`
	EventDate    string                 `json:"eventDate,omitempty"`
	AssigneeID   string                 `json:"assigneeId"`
	CustomFields map[string]model.Value `json:"customFields"`
}

// Input bundles everything a transform needs.
type Input struct {
	Mode      model.Mode
	Values    model.Values
	Elements  []model.FormElement
	EventName string
	OwnerID   string
}

// Option customises a Transformer.
type Option func(*Transformer)

// WithClock overrides the time source used when no date was collected.
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// Transformer turns collected answers into the backend payload for either
// submission mode.
type Transformer struct {
	now func() time.Time
}

// New constructs a Transformer.
func New(options ...Option) *Transformer {
	t := &Transformer{now: time.Now}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

// Transform builds the payload for in.Mode.
func (t *Transformer) Transform(in Input) Payload {
	elements := model.VisibleElements(in.Elements, in.Mode)
	out := Payload{
		AssigneeID:   in.OwnerID,
		CustomFields: CustomFields(in.Values, elements),
	}
	if in.Mode.General() {
		return out
	}

	out.EventName = in.EventName
	out.EventDate = t.eventDate(in.Values, elements)
	if shot := in.Values.Get(model.PaymentScreenshotID); !shot.IsBlank() {
		out.CustomFields[model.PaymentScreenshotKey] = shot
	}
	return out
}

// CustomFields builds the free-form answer bag in schema order. Decorative
// elements, QR displays and empty answers are skipped; when two labels derive
// the same key the later element wins.
func CustomFields(values model.Values, elements []model.FormElement) map[string]model.Value {
	fields := make(map[string]model.Value)
	for _, el := range elements {
		if el.Type.Decorative() || el.Type == model.ElementQRCode {
			continue
		}
		value := values.Get(el.ID)
		if value.Omittable() {
			continue
		}
		fields[FieldKey(el)] = value
	}
	return fields
}

// FieldKey returns the customFields key for el, falling back to the element id
// when the label is blank.
func FieldKey(el model.FormElement) string {
	if key := CamelCase(el.Label); key != "" {
		return key
	}
	return CamelCase(el.ID)
}

func (t *Transformer) eventDate(values model.Values, elements []model.FormElement) string {
	for _, el := range elements {
		if el.Type != model.ElementDate {
			continue
		}
		value := values.Get(el.ID)
		if value.IsBlank() {
			continue
		}
		if day, ok := parseDay(value.String()); ok {
			return day.Add(eventHour * time.Hour).Format(TimestampLayout)
		}
		break
	}
	return t.now().UTC().Format(TimestampLayout)
}

func parseDay(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > len(time.DateOnly) {
		trimmed = trimmed[:len(time.DateOnly)]
	}
	day, err := time.Parse(time.DateOnly, trimmed)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
