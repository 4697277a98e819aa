package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateOrderNumber generates a unique order number for the given date,
// e.g. "PO-20250901-3F2A9C1B". The random suffix makes collisions within a
// stored collection vanishingly unlikely.
func GenerateOrderNumber(date time.Time) string {
	return "PO-" + date.Format("20060102") + "-" + strings.ToUpper(uuid.New().String()[:8])
}
