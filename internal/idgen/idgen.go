// Package idgen provides short, URL-safe session IDs backed by nanoid.
package idgen

import (
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultPrefix is prepended to every generated ID.
var DefaultPrefix = "ov-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 10

// Generate returns a new unique ID using the default prefix.
func Generate() (string, error) {
	return GenerateWithPrefix(DefaultPrefix)
}

// GenerateWithPrefix returns a new unique ID with the given prefix.
func GenerateWithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

// Valid reports whether id has the shape Generate produces
func Valid(id string) bool {
	if len(id) != len(DefaultPrefix)+Length || id[:len(DefaultPrefix)] != DefaultPrefix {
		return false
	}
	for _, r := range id[len(DefaultPrefix):] {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}
