// Package memory provides in-process implementations of the config store and
// run cache. Nothing is persisted; state lives for the life of the process.
package memory
