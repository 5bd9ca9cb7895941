// Package session provides storage for diagram editing sessions.
//
// A session is one diagram under edit: its identifier, the latest serialized
// interchange XML, and timestamps. Backends exist for different deployments:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for single-host setups
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage when durability is required
//
// # Usage
//
// Create a session store:
//
//	// Development
//	store := NewMemoryStore()
//
//	// Single host
//	store, err := NewFileStore("")  // Uses ~/.config/drawcell/sessions/
//
//	// Multi-instance
//	store, err := NewRedisStore(ctx, RedisConfig{Addr: "localhost:6379"})
//
// Manage sessions:
//
//	sess := session.New("Architecture", xml, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session stores one diagram editing session.
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	XML       string    `json:"xml" bson:"xml"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has exceeded its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch updates the modification timestamp and extends the TTL.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a session holding the given diagram XML.
func New(name, xml string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Name:      name,
		XML:       xml,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
