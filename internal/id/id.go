// Package id generates the engine's random identifiers: prefixed NanoIDs
// for snapshot keys and short lowercase suffixes for cloned records.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Generate returns a prefixed NanoID in the form "prefix-<21 chars>".
// The NanoID alphabet is URL-safe, so the result is usable as a blob key
// without escaping.
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// Suffix creates a short random suffix for cloned record IDs and handles.
// Uses a lowercase alphanumeric alphabet so suffixed handles stay valid.
func Suffix(n int) (string, error) {
	s, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", n)
	if err != nil {
		return "", fmt.Errorf("generate suffix: %w", err)
	}
	return s, nil
}
