// Package session holds per-chat question/answer history.
package session

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned for ids that were never created or have expired.
var ErrNotFound = errors.New("session not found")

// Store creates sessions and records their history in order.
type Store interface {
	Create(ctx context.Context) (string, error)
	Get(ctx context.Context, id string) ([]string, error)
	// Append adds entries in order and returns the updated history.
	Append(ctx context.Context, id string, entries ...string) ([]string, error)
	Close() error
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
	RedisStore    StoreType = "redis"
)

// QuestionEntry and AnswerEntry format history lines.
func QuestionEntry(q string) string { return "Q: " + q }
func AnswerEntry(a string) string   { return "A: " + a }

// Recent returns the last n entries of history.
func Recent(history []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

// ValidID rejects blank ids before they reach a backend.
func ValidID(id string) bool { return strings.TrimSpace(id) != "" }
