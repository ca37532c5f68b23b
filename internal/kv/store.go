// Package kv provides the key/value record store used to persist resume
// records, with prefix-wildcard listing.
package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Item is one listing entry. Value is empty when values were not requested.
type Item struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Store is the key/value contract consumed by the pipeline. Set is a
// full-value overwrite. List accepts prefix-wildcard patterns only
// ("resume:*", "*"); when withValues is false the returned items carry bare
// keys.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	List(ctx context.Context, pattern string, withValues bool) ([]Item, error)
}

// patternPrefix resolves a prefix-wildcard pattern to its literal prefix.
// Only a single trailing '*' is supported; this is deliberately not a glob
// engine.
func patternPrefix(pattern string) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("empty pattern")
	}
	if !strings.HasSuffix(pattern, "*") {
		return "", fmt.Errorf("unsupported pattern %q: must end with '*'", pattern)
	}
	prefix := strings.TrimSuffix(pattern, "*")
	if strings.Contains(prefix, "*") {
		return "", fmt.Errorf("unsupported pattern %q: only a trailing wildcard is allowed", pattern)
	}
	return prefix, nil
}
