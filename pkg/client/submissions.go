package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/payload"
)

const (
	eventBookingPath       = "/event-management"
	generalInformationPath = "/event-management/information-forms"
)

// Receipt is the booking API acknowledgement of a submission.
type Receipt struct {
	BookingID string `json:"bookingId"`
	EventName string `json:"eventName"`
	EventDate string `json:"eventDate"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type submitResponse struct {
	Success bool     `json:"success"`
	Data    *Receipt `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Submissions posts transformed payloads.
type Submissions struct {
	c *Client
}

// Path returns the endpoint a payload is posted to for mode.
func Path(mode model.Mode) string {
	if mode.General() {
		return generalInformationPath
	}
	return eventBookingPath
}

// Submit posts body to the endpoint selected by mode. Only a 201 Created
// response flagged as successful and carrying a receipt counts as success.
// Otherwise the backend's error text, when present, is surfaced as the message.
func (s *Submissions) Submit(ctx context.Context, mode model.Mode, body payload.Payload) (Receipt, error) {
	var resp submitResponse
	if err := s.c.postJSON(ctx, "submit", Path(mode), body, http.StatusCreated, &resp); err != nil {
		return Receipt{}, err
	}
	if !resp.Success || resp.Data == nil {
		s.c.logger.Warn("booking api rejected submission", "mode", string(mode), "success", resp.Success, "error", resp.Error)
		return Receipt{}, fmt.Errorf("client: submit: %w", apierrors.ErrSubmitFailed.WithMessage(strings.TrimSpace(resp.Error)))
	}
	return *resp.Data, nil
}
