// Package api exposes the review scheduler over HTTP. Handlers decode and
// validate requests, call the review, deck and quiz services, and translate
// their errors into status codes without leaking internal details.
package api
