package server

import (
	"testing"
	"time"

	bookingform "github.com/fotosfolio/go-bookingform"
	"github.com/fotosfolio/go-bookingform/pkg/model"
	"github.com/fotosfolio/go-bookingform/pkg/state"
	"github.com/fotosfolio/go-bookingform/pkg/testsupport"
)

func TestSessionsExpireAfterIdleTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessions(10 * time.Minute)
	store.now = func() time.Time { return now }

	key := sessionKey{id: "a", templateID: "wedding-2024"}
	sess := newSession(wrap(state.New(testsupport.WeddingForm(), model.ModeEventBooking, nil)))
	store.put(key, sess)

	now = now.Add(9 * time.Minute)
	if got, ok := store.get(key); !ok || got != sess {
		t.Fatalf("session should still be open")
	}

	// get refreshed the deadline.
	now = now.Add(9 * time.Minute)
	if _, ok := store.get(key); !ok {
		t.Fatalf("session should be refreshed by use")
	}

	now = now.Add(10 * time.Minute)
	if _, ok := store.get(key); ok {
		t.Fatalf("session should have expired")
	}
	if n := store.Len(); n != 0 {
		t.Fatalf("Len = %d, want 0", n)
	}
}

func TestSessionsPurgeOnPut(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessions(time.Minute)
	store.now = func() time.Time { return now }

	form := testsupport.WeddingForm()
	store.put(sessionKey{id: "old", templateID: form.ID}, newSession(wrap(state.New(form, model.ModeEventBooking, nil))))
	now = now.Add(2 * time.Minute)
	store.put(sessionKey{id: "new", templateID: form.ID}, newSession(wrap(state.New(form, model.ModeEventBooking, nil))))

	store.mu.Lock()
	n := len(store.entries)
	store.mu.Unlock()
	if n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
}

func TestSessionUploadErrors(t *testing.T) {
	sess := newSession(wrap(state.New(testsupport.WeddingForm(), model.ModeEventBooking, nil)))
	sess.setUploadError("payment_screenshot", "File size must be less than 5MB")

	env := sess.env("email")
	if env.UploadErrors["payment_screenshot"] != "File size must be less than 5MB" {
		t.Fatalf("upload error not exposed: %+v", env.UploadErrors)
	}
	if env.OwnerID != "owner-42" || env.FirstInvalid != "email" {
		t.Fatalf("env = %+v", env)
	}

	sess.setUploadError("payment_screenshot", "")
	if _, ok := sess.env("").UploadErrors["payment_screenshot"]; ok {
		t.Fatalf("cleared upload error still present")
	}
}

func wrap(ctrl *state.Controller) *bookingform.Session {
	return &bookingform.Session{Controller: ctrl}
}
