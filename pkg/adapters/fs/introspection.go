package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// ScannerState exposes internal state for observability.
type ScannerState struct {
	Root            string     `json:"root"`
	VaultName       string     `json:"vault_name"`
	ExcludeDirs     []string   `json:"exclude_dirs,omitempty"`
	ExcludeDotted   bool       `json:"exclude_dotted"`
	ExcludePatterns []string   `json:"exclude_patterns,omitempty"`
	Workers         int        `json:"workers"`
	Documents       int        `json:"documents"`
	LastScan        *time.Time `json:"last_scan,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Scanner) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ScannerState{
		Root:            s.config.Root,
		VaultName:       s.VaultName(),
		ExcludeDirs:     s.config.ExcludeDirs,
		ExcludeDotted:   s.config.ExcludeDotted,
		ExcludePatterns: s.config.ExcludePatterns,
		Workers:         s.config.Workers,
		Documents:       s.documents,
		LastScan:        s.lastScan,
	}
}

// ComponentType implements introspection.Component.
func (s *Scanner) ComponentType() string {
	return "scanner"
}

var _ introspection.Introspectable = (*Scanner)(nil)
var _ introspection.Component = (*Scanner)(nil)
