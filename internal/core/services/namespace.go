package services

import (
	"strconv"
	"time"
)

// DefaultSearchNamespace is searched when no namespace is given.
const DefaultSearchNamespace = "default"

// namespacePrefix starts every generated namespace.
const namespacePrefix = "doc_"

// NewNamespace returns a namespace derived from the run time.
// Namespaces are not content-addressed: two runs get two namespaces.
func NewNamespace(now time.Time) string {
	return namespacePrefix + strconv.FormatInt(now.UnixMilli(), 10)
}
