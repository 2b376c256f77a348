package enums

import (
	"fmt"
	"strings"
)

// PersistenceBackend selects where cart snapshots are stored.
type PersistenceBackend string

const (
	PersistenceMemory   PersistenceBackend = "memory"
	PersistenceRedis    PersistenceBackend = "redis"
	PersistencePostgres PersistenceBackend = "postgres"
	PersistenceSQLite   PersistenceBackend = "sqlite"
)

var validPersistenceBackends = []PersistenceBackend{
	PersistenceMemory,
	PersistenceRedis,
	PersistencePostgres,
	PersistenceSQLite,
}

// String implements fmt.Stringer.
func (b PersistenceBackend) String() string {
	return string(b)
}

// IsValid reports whether the backend is known.
func (b PersistenceBackend) IsValid() bool {
	for _, candidate := range validPersistenceBackends {
		if candidate == b {
			return true
		}
	}
	return false
}

// IsSQL reports whether the backend is served by the gorm client.
func (b PersistenceBackend) IsSQL() bool {
	return b == PersistencePostgres || b == PersistenceSQLite
}

// ParsePersistenceBackend converts raw input into a PersistenceBackend.
func ParsePersistenceBackend(value string) (PersistenceBackend, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPersistenceBackends {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid persistence backend %q", value)
}
