package api

import (
	"regexp"

	"github.com/google/uuid"
)

const originIDPrefix = "org_"

var originIDPattern = regexp.MustCompile(`^org_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// NewOriginID generates a fresh origin ID with the "org_" prefix followed
// by a random UUID. Origin IDs correlate output messages back to the call
// that produced them.
func NewOriginID() string {
	return originIDPrefix + uuid.NewString()
}

// ValidateOriginID checks whether the given string is a well-formed origin ID.
func ValidateOriginID(id string) bool {
	return originIDPattern.MatchString(id)
}
