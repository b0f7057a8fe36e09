// Package validation checks submission data against the form derived from a
// template. The form is expressed as an OpenAPI 3 schema so the same document
// can be published to API clients.
package validation
