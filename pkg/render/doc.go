// Package render turns live form state into HTML. A View pairs a form
// control with caller-supplied templates: every field contributes its value,
// errors, and dirtiness to the template context, and Watch re-renders
// whenever the underlying record changes. Server-side error payloads map
// back onto record paths through MapErrorPayload.
package render
