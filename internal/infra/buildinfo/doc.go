// Package buildinfo exposes the version the binaries report.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/respkv/internal/infra/buildinfo.Version=v1.0.0"
//
// Unset values fall back to the module's embedded build information.
package buildinfo
