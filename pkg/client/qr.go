package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
)

type qrResponse struct {
	PaymentQR string `json:"paymentQr"`
}

// PaymentQR resolves the owner's payment QR image.
type PaymentQR struct {
	c *Client
}

// Fetch returns the QR image URL for ownerID. An owner without a QR yields an
// empty string and no error. Every failure collapses to ErrQRUnavailable.
func (p *PaymentQR) Fetch(ctx context.Context, ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", nil
	}
	var resp qrResponse
	path := "/user/paymentQr/" + url.PathEscape(ownerID)
	if err := p.c.getJSON(ctx, "fetch payment qr", path, &resp); err != nil {
		p.c.logger.Debug("payment qr lookup failed", "owner_id", ownerID, "error", err)
		return "", fmt.Errorf("client: fetch payment qr: %w", apierrors.ErrQRUnavailable)
	}
	return resp.PaymentQR, nil
}
