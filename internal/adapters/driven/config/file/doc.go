// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML or YAML configuration storage
//   - PromptStore: user-editable answer prompts
//   - PromptWatcher: reloads prompts when their files change
package file
