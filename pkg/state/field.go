package state

import "github.com/fotosfolio/go-bookingform/pkg/model"

// Field is the value, error and setter triple handed to a widget.
type Field struct {
	id string
	c  *Controller
}

// ID returns the element id the handle is bound to.
func (f Field) ID() string { return f.id }

// Value returns the current answer.
func (f Field) Value() model.Value {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.c.values.Get(f.id)
}

// Error returns the current validation message, or "".
func (f Field) Error() string {
	f.c.mu.Lock()
	defer f.c.mu.Unlock()
	return f.c.errors[f.id]
}

// Set records a new answer.
func (f Field) Set(v model.Value) {
	f.c.OnFieldChange(f.id, v)
}
