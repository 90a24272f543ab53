// Package client talks to the booking API: it loads form descriptors, submits
// bookings, uploads payment screenshots and fetches the owner's payment QR.
//
// Idempotent reads go through a retryablehttp client whose retry budget is
// configurable (zero by default). Writes use a plain client sharing the same
// timeout. Every failure is reported as an apierrors.DefinedError so callers
// can surface a fixed, user facing message.
package client
