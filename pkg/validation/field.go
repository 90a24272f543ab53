package validation

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// Messages surfaced to the form filler.
const (
	MsgMustAgree         = "You must agree to the terms and conditions"
	MsgRequired          = "This field is required"
	MsgInvalidEmail      = "Invalid email format"
	MsgInvalidPhone      = "Invalid phone format"
	MsgInvalidNumber     = "Must be a valid number"
	MsgInvalidDate       = "Invalid date"
	MsgInvalidSelection  = "Invalid selection"
	MsgPaymentScreenshot = "Payment screenshot is required"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
)

// DateLayouts are the accepted date encodings, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// ValidateField checks a single value. It returns "" for valid input.
func ValidateField(t model.ElementType, value model.Value, required bool, options []string) string {
	if t == model.ElementAgreement || t == model.ElementTerms {
		if required && !value.Truthy() {
			return MsgMustAgree
		}
		return ""
	}

	if value.IsBlank() {
		if required {
			return MsgRequired
		}
		return ""
	}

	text := value.String()
	switch t {
	case model.ElementEmail:
		if !emailPattern.MatchString(text) {
			return MsgInvalidEmail
		}
	case model.ElementPhone:
		if !phonePattern.MatchString(text) {
			return MsgInvalidPhone
		}
	case model.ElementNumber, model.ElementAmount:
		if !isFiniteNumber(value) {
			return MsgInvalidNumber
		}
	case model.ElementDate:
		if _, ok := ParseDate(text); !ok {
			return MsgInvalidDate
		}
	case model.ElementSelect, model.ElementPayment:
		if len(options) > 0 && !slices.Contains(options, text) {
			return MsgInvalidSelection
		}
	}
	return ""
}

// ParseDate parses raw using DateLayouts.
func ParseDate(raw string) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range DateLayouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func isFiniteNumber(value model.Value) bool {
	if n, ok := value.Float(); ok {
		return !math.IsNaN(n) && !math.IsInf(n, 0)
	}
	if _, ok := value.BoolValue(); ok {
		return false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value.String()), 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
