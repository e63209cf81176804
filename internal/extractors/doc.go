// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to turn the
// bytes of one declared document type into plain text.
//
// Extractors are registered with the Registry at startup.
package extractors
