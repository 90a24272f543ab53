// Package validation implements the per-field rules applied to booking form
// answers. Rules are pure: they take the element type, the collected value, the
// required flag and (for choice elements) the option list and return a message,
// or "" when the value is acceptable.
package validation
