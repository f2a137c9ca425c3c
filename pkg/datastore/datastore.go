package datastore

import (
	"time"

	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Record describes one installed package
type Record struct {
	Package     string       `toml:"package"`
	Name        string       `toml:"name"`
	Method      types.Method `toml:"method"`
	Version     string       `toml:"version,omitempty"`
	Platform    string       `toml:"platform,omitempty"`
	Fingerprint string       `toml:"fingerprint"`
	InstalledAt time.Time    `toml:"installed_at"`
	Files       []string     `toml:"files,omitempty"`
}

// DataStore manages install records
type DataStore interface {
	// Save writes or replaces the record for rec.Package
	Save(rec Record) error

	// Get returns the record for a package key
	Get(pkg string) (Record, bool, error)

	// Remove forgets a package; removing an unknown package is not an error
	Remove(pkg string) error

	// List returns every record sorted by package key
	List() ([]Record, error)
}
