// Package postprocessors builds text chunkers from configuration.
//
// Chunkers are registered by name with a Registry at startup and built from
// the generic settings map held in the config store.
package postprocessors
