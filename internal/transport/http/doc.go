// Package http contains the HTTP handlers of the survey dashboard API.
//
// Handlers translate between the wire format and the service layer: they
// decode and validate requests, delegate to services, and render either
// the result or an RFC 7807 problem document. No business logic lives
// here.
package http
