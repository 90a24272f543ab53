package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingform "github.com/fotosfolio/go-bookingform"
	"github.com/fotosfolio/go-bookingform/pkg/render"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "bookingform_session"

// session is one open form in one browser session.
type session struct {
	*bookingform.Session

	mu           sync.Mutex
	uploadErrors map[string]string
}

func newSession(form *bookingform.Session) *session {
	return &session{Session: form, uploadErrors: make(map[string]string)}
}

func (s *session) setUploadError(id, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		delete(s.uploadErrors, id)
		return
	}
	s.uploadErrors[id] = msg
}

func (s *session) env(firstInvalid string) render.Env {
	s.mu.Lock()
	uploadErrors := make(map[string]string, len(s.uploadErrors))
	for id, msg := range s.uploadErrors {
		uploadErrors[id] = msg
	}
	s.mu.Unlock()
	return s.Env(uploadErrors, firstInvalid)
}

type sessionKey struct {
	id         string
	templateID string
}

type sessionEntry struct {
	sess    *session
	expires time.Time
}

// Sessions keeps open forms in memory. Entries expire after ttl without use
// and are purged lazily.
type Sessions struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[sessionKey]sessionEntry
}

// NewSessions returns an empty store.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[sessionKey]sessionEntry),
	}
}

func (s *Sessions) get(key sessionKey) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	now := s.now()
	if !now.Before(entry.expires) {
		delete(s.entries, key)
		return nil, false
	}
	entry.expires = now.Add(s.ttl)
	s.entries[key] = entry
	return entry.sess, true
}

func (s *Sessions) put(key sessionKey, sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, entry := range s.entries {
		if !now.Before(entry.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = sessionEntry{sess: sess, expires: now.Add(s.ttl)}
}

func (s *Sessions) delete(key sessionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len reports the number of unexpired sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for _, entry := range s.entries {
		if now.Before(entry.expires) {
			n++
		}
	}
	return n
}

// sessionID returns the id carried by the request cookie, issuing a new one
// when it is missing or malformed.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingSessionID returns the cookie id without issuing one.
func existingSessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
