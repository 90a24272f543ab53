// Package model defines the declarative booking form schema shared by the
// validator, payload transformer, state controller and renderers. A form is an
// ordered slice of FormElement values whose Type selects the rendering,
// validation and transform branch; FormConfig wraps the slice together with the
// event metadata, Theme and owner id returned by the booking API. Collected
// answers are held as Value scalars (string, number or bool) keyed by element id.
package model
