// Package constants holds shared constant values used across layers.
package constants

// Supported pub/sub provider names, selected by configuration.
const (
	PubSubProviderNoop   = "noop"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)
