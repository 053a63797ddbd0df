// Package version exposes build metadata for the lazyseq binary.
//
// Values are injected at link time and fall back to the VCS stamp that the
// Go toolchain embeds:
//
//	go build -ldflags "-X github.com/kbukum/lazyseq/version.Version=1.0.0" ./cmd/lazyseq
package version
