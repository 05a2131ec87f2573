package model

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUIDWithSuffix generates a UUID prefixed with a module name.
// This is useful for creating unique identifiers with context-specific prefixes,
// e.g. "exp_<uuid>" for expenses or "match_<uuid>" for reconciliation matches.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}
