// Package domain contains the core domain model for cosmic-fprint.
//
// The domain is transport-agnostic: it does not depend on the bus library, the
// terminal UI or the filesystem. Infra adapters map remote objects and errors
// into these types.
package domain
