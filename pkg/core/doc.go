// Package core defines the shared vocabulary of leaplint: severities, rule
// metadata and dialect configuration.
//
// pkg/core imports only the standard library. Every other package may
// depend on core, never the reverse.
package core
