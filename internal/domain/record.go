// Package domain defines the canonical entity types managed by the data
// lifecycle engine: artists, studios, and styles.
package domain

import "time"

// Kind identifies an entity collection. Kinds scope IDs and primary-store
// key prefixes, so an artist and a studio can never collide.
type Kind string

const (
	KindArtist Kind = "artist"
	KindStudio Kind = "studio"
	KindStyle  Kind = "style"
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the kind is a recognized value.
func (k Kind) IsValid() bool {
	switch k {
	case KindArtist, KindStudio, KindStyle:
		return true
	default:
		return false
	}
}

// Kinds lists all entity kinds in seeding order: styles and studios first so
// artist references resolve against already-written records.
func Kinds() []Kind {
	return []Kind{KindStyle, KindStudio, KindArtist}
}

// Record provides common fields for all stored entities.
// Embedded in every domain type written to the primary store.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity is rewritten.
func (r *Record) Touch() {
	r.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (r *Record) InitTimestamps() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
}
