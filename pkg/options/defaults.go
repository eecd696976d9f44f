package options

const (
	// DefaultFolder is the default root directory under which sharded
	// track files are stored.
	DefaultFolder = "/var/lib/tracks"

	// DefaultWebHost is the default bind address for the HTTP API.
	DefaultWebHost = "127.0.0.1"

	// DefaultWebPort is the default bind port for the HTTP API.
	DefaultWebPort = 9441

	// DefaultLogLevel is the default minimum log severity.
	DefaultLogLevel = "debug"
)

// Holds the default configuration settings for the tracked daemon.
var defaultOptions = Options{
	Folder:   DefaultFolder,
	WebHost:  DefaultWebHost,
	WebPort:  DefaultWebPort,
	LogLevel: DefaultLogLevel,
}

// NewDefaultOptions returns a copy of the built-in default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
