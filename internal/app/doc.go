// Package app assembles the application: configuration, logging, the
// service container and the HTTP server with its middleware chain.
//
// The composition root lives in NewWithConfig. It wires the snapshot
// store, the survey and dashboard services and the transport handlers,
// then builds the chi router. Run starts the server and blocks until
// the context is cancelled or a shutdown signal arrives, draining
// in-flight requests within the configured timeout.
package app
