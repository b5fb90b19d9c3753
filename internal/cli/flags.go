package cli

import "github.com/RaphaelManke/wing-test-explorer/internal/config"

// Flags holds command-line flags
type Flags struct {
	Path       string
	NameFilter string
	Cases      bool
	LogLevel   string
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Path:       f.Path,
		NameFilter: f.NameFilter,
		Cases:      f.Cases,
		LogLevel:   f.LogLevel,
	}
}
