// Package errors provides structured application errors for lazyseq.
// Every error carries a machine-readable code, a retryable flag and the
// HTTP status the playground server answers with.
package errors
