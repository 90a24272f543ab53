package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	bookingform "github.com/fotosfolio/go-bookingform"
	"github.com/fotosfolio/go-bookingform/pkg/apierrors"
	"github.com/fotosfolio/go-bookingform/pkg/client"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/render"
	"github.com/fotosfolio/go-bookingform/pkg/state"
)

const (
	// uploadPart is the multipart field read by the single upload endpoint.
	uploadPart = "images"
	// fieldValue is the form field read by the single field endpoint.
	fieldValue = "value"

	multipartMemory = 8 << 20
)

// ErrSessionNotFound is answered when a field or upload arrives for a form
// that was never opened or has expired.
var ErrSessionNotFound = errors.New("form session not found")

type uploadReply struct {
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func formAction(templateID string) string {
	return "/booking/" + url.PathEscape(templateID)
}

// open loads templateID and starts a session for it. Answers of prior are
// carried over when it is in the same mode.
func (s *Server) open(ctx context.Context, templateID string, mode model.Mode, prior *session) (*session, error) {
	opts := []state.Option{state.WithLogger(s.logger)}
	if prior != nil && prior.Controller.Mode() == mode {
		opts = append(opts, state.WithValues(prior.Controller.Values()))
	}
	form, err := bookingform.Open(ctx, s.api, templateID, mode, opts...)
	s.metrics.load(err)
	if err != nil {
		return nil, err
	}
	return newSession(form), nil
}

// lookup returns the open session of templateID for the request cookie.
func (s *Server) lookup(r *http.Request, templateID string) (*session, error) {
	id, ok := existingSessionID(r)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess, ok := s.sessions.get(sessionKey{id: id, templateID: templateID})
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]
	mode := model.ModeFromQuery(r.URL.Query().Get(render.ModeField))
	key := sessionKey{id: s.sessionID(w, r), templateID: templateID}

	prior, _ := s.sessions.get(key)
	sess, err := s.open(r.Context(), templateID, mode, prior)
	if err != nil {
		s.renderLoadError(w, r, templateID, err)
		return
	}
	s.sessions.put(key, sess)
	s.renderForm(w, r, http.StatusOK, templateID, sess, "", "")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	templateID := mux.Vars(r)["templateId"]
	if err := parseBody(r); err != nil {
		http.Error(w, apierrors.ErrInvalidData.Err, http.StatusBadRequest)
		return
	}
	mode := model.ModeFromQuery(r.FormValue(render.ModeField))
	key := sessionKey{id: s.sessionID(w, r), templateID: templateID}

	sess, ok := s.sessions.get(key)
	if !ok || sess.Controller.Mode() != mode {
		var err error
		sess, err = s.open(r.Context(), templateID, mode, nil)
		if err != nil {
			s.renderLoadError(w, r, templateID, err)
			return
		}
		s.sessions.put(key, sess)
	}

	if err := s.collect(r.Context(), sess, r); err != nil {
		s.logger.Warn("collect submission failed", "template_id", templateID, "error", err)
	}

	receipt, err := sess.Controller.Submit(r.Context())
	var verr *state.ValidationError
	switch {
	case err == nil:
		s.metrics.submission(mode, resultOK)
		s.sessions.delete(key)
		target := url.URL{Path: "/success", RawQuery: url.Values{
			"bookingId": {receipt.BookingID},
			"eventName": {receipt.EventName},
		}.Encode()}
		http.Redirect(w, r, target.String(), http.StatusSeeOther)
	case errors.As(err, &verr):
		s.metrics.submission(mode, resultInvalid)
		s.renderForm(w, r, http.StatusUnprocessableEntity, templateID, sess, "", verr.FirstInvalid)
	case errors.Is(err, state.ErrSubmitInFlight):
		s.renderForm(w, r, http.StatusConflict, templateID, sess, render.SubmittingLabel, "")
	default:
		s.metrics.submission(mode, resultFailed)
		s.renderForm(w, r, http.StatusBadGateway, templateID, sess, apierrors.Message(err), "")
	}
}

// collect applies the posted answers to sess. Toggles missing from the post
// are unchecked. Posted files are uploaded concurrently.
func (s *Server) collect(ctx context.Context, sess *session, r *http.Request) error {
	form := sess.Controller.Form()
	mode := sess.Controller.Mode()
	elements := model.VisibleElements(form.Elements, mode)
	if !mode.General() {
		elements = append(elements, render.PaymentBlock()...)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, el := range elements {
		switch {
		case el.Type.Decorative(), el.Type == model.ElementQRCode:
			continue
		case el.Type.Toggle():
			sess.Controller.OnFieldChange(el.ID, render.ParseValue(el.Type, r.PostFormValue(el.ID)))
		case el.Type.Upload():
			if raw, ok := r.PostForm[el.ID]; ok && len(raw) > 0 {
				sess.Controller.OnFieldChange(el.ID, model.String(raw[0]))
			}
			if r.MultipartForm == nil {
				continue
			}
			file, header, err := r.FormFile(render.FileField(el.ID))
			if err != nil {
				continue
			}
			if header.Size == 0 {
				_ = file.Close()
				continue
			}
			upload := client.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
			id := el.ID
			g.Go(func() error {
				defer file.Close()
				// Failures are shown next to the field and never abort the submit.
				_, _ = s.upload(gctx, sess, id, upload)
				return nil
			})
		default:
			if raw, ok := r.PostForm[el.ID]; ok && len(raw) > 0 {
				sess.Controller.OnFieldChange(el.ID, render.ParseValue(el.Type, raw[0]))
			}
		}
	}
	return g.Wait()
}

// upload stores file for fieldID. A failure resets the field to "" and keeps
// the message for the field.
func (s *Server) upload(ctx context.Context, sess *session, fieldID string, file client.File) (string, error) {
	form := sess.Controller.Form()
	link, err := s.api.Uploads().Upload(ctx, form.OwnerID, file)
	s.metrics.upload(err)
	if err != nil {
		s.logger.Warn("image upload failed", "form_id", form.ID, "field_id", fieldID, "error", err)
		sess.Controller.OnFieldChange(fieldID, model.String(""))
		sess.setUploadError(fieldID, apierrors.Message(err))
		return "", err
	}
	sess.setUploadError(fieldID, "")
	sess.Controller.OnFieldChange(fieldID, model.String(link))
	return link, nil
}

func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, err := s.lookup(r, vars["templateId"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	el, ok := element(sess, vars["fieldId"])
	if !ok || el.Type.Decorative() || el.Type == model.ElementQRCode {
		http.Error(w, "unknown field", http.StatusNotFound)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, apierrors.ErrInvalidData.Err, http.StatusBadRequest)
		return
	}
	sess.Controller.OnFieldChange(el.ID, render.ParseValue(el.Type, r.PostFormValue(fieldValue)))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sess, err := s.lookup(r, vars["templateId"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, uploadReply{Error: err.Error()})
		return
	}
	el, ok := element(sess, vars["fieldId"])
	if !ok || !el.Type.Upload() {
		writeJSON(w, http.StatusNotFound, uploadReply{Error: "unknown field"})
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeJSON(w, http.StatusBadRequest, uploadReply{Error: apierrors.ErrInvalidImage.Err})
		return
	}
	file, header, err := r.FormFile(uploadPart)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, uploadReply{Error: apierrors.ErrInvalidImage.Err})
		return
	}
	defer file.Close()

	link, err := s.upload(r.Context(), sess, el.ID, client.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeJSON(w, apierrors.Status(err), uploadReply{Error: apierrors.Message(err)})
		return
	}
	writeJSON(w, http.StatusOK, uploadReply{URL: link})
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := render.SuccessPage(q.Get("bookingId"), q.Get("eventName"), s.cfg.SiteURL)
	s.renderPage(w, r, http.StatusOK, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderLoadError(w http.ResponseWriter, r *http.Request, templateID string, err error) {
	s.logger.Warn("form load failed", "template_id", templateID, "error", err)
	page := render.ErrorPage(apierrors.Message(err), s.cfg.SiteURL)
	s.renderPage(w, r, apierrors.Status(err), page)
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, templateID string, sess *session, notice, firstInvalid string) {
	page := sess.Page(formAction(templateID), sess.env(firstInvalid))
	page.Notice = notice
	page.HomeURL = s.cfg.SiteURL
	s.renderPage(w, r, status, page)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	body, err := s.renderer.Render(r.Context(), page)
	if err != nil {
		s.logger.Error("render page failed", "kind", string(page.Kind), "error", err)
		http.Error(w, apierrors.ErrUnexpected.Err, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// element finds id among the declared elements and, for event bookings, the
// payment block.
func element(sess *session, id string) (model.FormElement, bool) {
	if el, ok := sess.Controller.Form().Element(id); ok {
		return el, true
	}
	if sess.Controller.Mode().General() {
		return model.FormElement{}, false
	}
	for _, el := range render.PaymentBlock() {
		if el.ID == id {
			return el, true
		}
	}
	return model.FormElement{}, false
}

func parseBody(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
