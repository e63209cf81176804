// Package fetch provides DocumentSource adapters.
//
// HTTPSource downloads http(s) URLs, FileSource reads file:// URLs and bare
// paths, and Router dispatches between them by scheme. Every failure wraps
// domain.ErrFetch.
package fetch
