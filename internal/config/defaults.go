package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultRunnerBinary is the external test runner command
	DefaultRunnerBinary = "wing"
	// DefaultExtension gates which files are tracked
	DefaultExtension = ".w"
	// DefaultLogLevel is the default log verbosity
	DefaultLogLevel = "info"
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = ".wte"
	// DefaultDebounceMillis is how long watcher events for a path are
	// coalesced before reconciling
	DefaultDebounceMillis = 200
)

// DefaultPathsToIgnore are the default directories to skip when scanning for
// source files
var DefaultPathsToIgnore = []string{
	"node_modules",
	"target",
	".git",
	".wte",
}
