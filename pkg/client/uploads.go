package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// imagesPart is the multipart field name the upload endpoint reads.
const imagesPart = "images"

// Upload errors surfaced next to the upload widget.
var (
	ErrInvalidImage  = apierrors.ErrInvalidImage
	ErrImageTooLarge = apierrors.ErrImageTooLarge
	ErrNoDownloadURL = apierrors.ErrNoDownloadURL
)

// File is an image picked by the user. Size may be negative when unknown, in
// which case the body is buffered to measure it.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type uploadResponse struct {
	DownloadURLs []string `json:"downloadUrls"`
	Message      string   `json:"message,omitempty"`
}

// Uploads stores images under an owner and returns their public URL.
type Uploads struct {
	c *Client
}

// Check applies the client side rules: image/* only and no larger than the
// configured limit.
func (u *Uploads) Check(file File) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(file.ContentType)), "image/") {
		return ErrInvalidImage
	}
	if file.Size > u.c.maxUpload {
		return ErrImageTooLarge.WithMessage("File size must be less than " + model.SizeLabel(u.c.maxUpload))
	}
	return nil
}

// Upload posts file as the `images` part and returns the first download URL.
func (u *Uploads) Upload(ctx context.Context, ownerID string, file File) (string, error) {
	if file.Body == nil {
		return "", fmt.Errorf("client: upload: %w", ErrInvalidImage)
	}
	if file.Size < 0 {
		data, err := io.ReadAll(io.LimitReader(file.Body, u.c.maxUpload+1))
		if err != nil {
			return "", fmt.Errorf("client: upload: read file: %w", err)
		}
		file.Size = int64(len(data))
		file.Body = bytes.NewReader(data)
	}
	if err := u.Check(file); err != nil {
		return "", fmt.Errorf("client: upload: %w", err)
	}

	body, contentType, err := encodeImage(file)
	if err != nil {
		return "", fmt.Errorf("client: upload: %w", err)
	}

	path := "/event-management/upload-images/" + url.PathEscape(ownerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.c.url(path), body)
	if err != nil {
		return "", fmt.Errorf("client: upload: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	var resp uploadResponse
	if err := u.c.do(u.c.write, req, "upload", 0, &resp); err != nil {
		return "", err
	}
	if len(resp.DownloadURLs) == 0 || strings.TrimSpace(resp.DownloadURLs[0]) == "" {
		return "", fmt.Errorf("client: upload: %w", ErrNoDownloadURL)
	}
	return resp.DownloadURLs[0], nil
}

func encodeImage(file File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	name := filepath.Base(strings.TrimSpace(file.Name))
	if name == "" || name == "." || name == "/" {
		name = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, imagesPart, name))
	header.Set("Content-Type", file.ContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return nil, "", fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}
