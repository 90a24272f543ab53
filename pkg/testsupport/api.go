package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/fotosfolio/go-bookingform/pkg/model"
)

// Submission is one request recorded by BookingAPI.
type Submission struct {
	Path string
	Body map[string]any
}

// BookingAPI is an httptest backed stand-in for the booking service.
type BookingAPI struct {
	*httptest.Server

	mu          sync.Mutex
	forms       map[string]model.FormConfig
	formStatus  map[string]int
	qr          map[string]string
	submitCode  int
	rejectMsg   *string
	uploadURLs  []string
	submissions []Submission
	uploads     []string
}

// NewBookingAPI starts a fake booking API serving forms. It is closed with
// the test.
func NewBookingAPI(t *testing.T, forms ...model.FormConfig) *BookingAPI {
	t.Helper()
	api := &BookingAPI{
		forms:      make(map[string]model.FormConfig, len(forms)),
		formStatus: make(map[string]int),
		qr:         make(map[string]string),
		submitCode: http.StatusCreated,
	}
	for _, form := range forms {
		api.forms[form.ID] = form
	}

	r := mux.NewRouter()
	r.HandleFunc("/event-management/custom-forms/{templateId}", api.handleForm).Methods(http.MethodGet)
	r.HandleFunc("/event-management", api.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/event-management/information-forms", api.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc("/event-management/upload-images/{ownerId}", api.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/user/paymentQr/{ownerId}", api.handleQR).Methods(http.MethodGet)

	api.Server = httptest.NewServer(r)
	t.Cleanup(api.Close)
	return api
}

// FailForm makes loads of templateID answer with status.
func (a *BookingAPI) FailForm(templateID string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.formStatus[templateID] = status
}

// SetSubmitStatus changes the status returned for submissions.
func (a *BookingAPI) SetSubmitStatus(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitCode = status
}

// RejectSubmissions makes submissions answer 201 Created flagged as failed,
// with msg as the error text.
func (a *BookingAPI) RejectSubmissions(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejectMsg = &msg
}

// SetPaymentQR registers the QR image for ownerID.
func (a *BookingAPI) SetPaymentQR(ownerID, url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.qr[ownerID] = url
}

// SetUploadURLs overrides the download URLs returned by uploads. An empty,
// non-nil slice simulates a response without URLs.
func (a *BookingAPI) SetUploadURLs(urls []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploadURLs = urls
}

// Submissions returns the recorded submissions.
func (a *BookingAPI) Submissions() []Submission {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Submission(nil), a.submissions...)
}

// Uploads returns the file names received by the upload endpoint.
func (a *BookingAPI) Uploads() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.uploads...)
}

type apiForm struct {
	ID          string `json:"id"`
	FormName    string `json:"formName"`
	IsDefault   bool   `json:"isDefault"`
	IsActive    *bool  `json:"isActive,omitempty"`
	Description string `json:"description,omitempty"`
	FormFields  struct {
		Fields []model.FormElement `json:"fields"`
	} `json:"formFields"`
	Logo      string `json:"logo,omitempty"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// FormResponse renders form in the booking API wire format.
func FormResponse(form model.FormConfig) []byte {
	out := apiForm{
		ID:          form.ID,
		FormName:    form.EventName,
		IsDefault:   form.IsDefault,
		Description: form.Description,
		Logo:        form.Logo,
		UserID:      form.OwnerID,
		CreatedAt:   "2024-01-01T00:00:00Z",
		UpdatedAt:   "2024-01-01T00:00:00Z",
	}
	if !form.IsActive {
		inactive := false
		out.IsActive = &inactive
	}
	out.FormFields.Fields = form.Elements
	data, _ := json.Marshal(out)
	return data
}

func (a *BookingAPI) handleForm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["templateId"]

	a.mu.Lock()
	status, failed := a.formStatus[id]
	form, ok := a.forms[id]
	a.mu.Unlock()

	switch {
	case failed:
		writeJSON(w, status, map[string]any{"error": http.StatusText(status)})
	case !ok:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Form not found"})
	default:
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(FormResponse(form))
	}
}

func (a *BookingAPI) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	a.mu.Lock()
	a.submissions = append(a.submissions, Submission{Path: r.URL.Path, Body: body})
	n := len(a.submissions)
	status := a.submitCode
	reject := a.rejectMsg
	a.mu.Unlock()

	if reject != nil {
		writeJSON(w, http.StatusCreated, map[string]any{"success": false, "error": *reject})
		return
	}

	if status != http.StatusCreated {
		writeJSON(w, status, map[string]any{"success": false, "error": http.StatusText(status)})
		return
	}
	eventName, _ := body["eventName"].(string)
	eventDate, _ := body["eventDate"].(string)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data": map[string]any{
			"bookingId": fmt.Sprintf("bk-%d", n),
			"eventName": eventName,
			"eventDate": eventDate,
			"status":    "pending",
			"message":   "Booking received",
		},
	})
}

func (a *BookingAPI) handleUpload(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["ownerId"]
	file, header, err := r.FormFile("images")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	_, _ = io.Copy(io.Discard, file)
	_ = file.Close()

	a.mu.Lock()
	a.uploads = append(a.uploads, header.Filename)
	urls := a.uploadURLs
	a.mu.Unlock()

	if urls == nil {
		urls = []string{"https://cdn.test/" + path.Join(owner, header.Filename)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"downloadUrls": urls, "message": "uploaded"})
}

func (a *BookingAPI) handleQR(w http.ResponseWriter, r *http.Request) {
	owner := mux.Vars(r)["ownerId"]
	a.mu.Lock()
	url, ok := a.qr[owner]
	a.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paymentQr": url})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
