// Package uuid hands out time-ordered identifiers for sessions, test runs and archived audio.
// UUID v7 sorts by creation time, which keeps the practice_session primary key index append-only.
package uuid

import "github.com/google/uuid"

// NewV7 returns a new UUID v7 in canonical string form.
// Falls back to a random v4 if the clock source fails.
func NewV7() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
