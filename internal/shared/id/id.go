// Package id provides centralized ID generation for the backend.
//
// Entity IDs are prefixed ULIDs: lexicographically sortable,
// timestamp-derived, and unique even when two IDs are minted in the same
// millisecond (the entropy suffix breaks ties). Identity (profile) IDs
// are UUIDs to stay compatible with the external record store and are
// minted elsewhere.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NotificationID identifies a toast entry.
type NotificationID string

// FileID identifies a user file entry.
type FileID string

// RequestID identifies an API request.
type RequestID string

const (
	NotificationPrefix = "ntf"
	FilePrefix         = "file"
	RequestPrefix      = "req"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator with secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy
// source, useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewNotificationID generates a new toast ID.
func NewNotificationID() NotificationID {
	return NotificationID(Default().GenerateWithPrefix(NotificationPrefix))
}

// NewFileID generates a new user file ID.
func NewFileID() FileID {
	return FileID(Default().GenerateWithPrefix(FilePrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

func (id NotificationID) String() string { return string(id) }
func (id FileID) String() string         { return string(id) }
func (id RequestID) String() string      { return string(id) }

// Timestamp extracts the creation instant from a prefixed or bare ULID.
func Timestamp(s string) (time.Time, error) {
	if i := len(s) - ulid.EncodedSize; i > 0 && s[i-1] == '_' {
		s = s[i:]
	}
	parsed, err := ulid.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
