package utils

import (
	"strings"

	"github.com/google/uuid"
)

// BillNoPrefix starts every generated folio number
const BillNoPrefix = "FOL-"

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateBillNo generates a unique folio number such as FOL-3F2A9C1B
func GenerateBillNo() string {
	return BillNoPrefix + strings.ToUpper(uuid.New().String()[:8])
}
