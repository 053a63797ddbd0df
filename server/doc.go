// Package server exposes the sequence playground over HTTP.
//
// The Gin engine is wrapped by the middleware chain (recovery, request id,
// request logging, body size limit) and served through h2c, so clients may
// speak HTTP/1.1 or cleartext HTTP/2 on the same port.
//
// # Endpoints
//
//   - GET /health: liveness
//   - GET /version: build version information
//   - POST /v1/evaluate: run a demo.Scenario in lazy, eager or both modes
package server
