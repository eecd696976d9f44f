// Package options provides data structures and functions for configuring
// the tracked daemon. It defines the parameters that control where track
// files live, where the HTTP API binds, and how verbosely the process
// logs, with both a functional-options constructor path and a TOML file
// loader for the on-disk config.
package options

import "strings"

// Options holds the full set of configuration knobs the tracked daemon
// accepts, whether set programmatically or loaded from tracked.toml.
type Options struct {
	// Folder is the root directory under which sharded track files are
	// stored: <Folder>/<shard1>/<shard2>/<track_id>.bin.
	//
	// Default: "/var/lib/tracks"
	Folder string

	// WebHost is the address the HTTP API listens on.
	//
	// Default: "127.0.0.1"
	WebHost string

	// WebPort is the port the HTTP API listens on.
	//
	// Default: 9441
	WebPort int

	// LogLevel selects the minimum severity the logger emits:
	// off, error, warn, info, debug, or trace.
	//
	// Default: "debug"
	LogLevel string
}

// OptionFunc is a function type that modifies the daemon's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions resets every field to its built-in default.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.Folder = opts.Folder
		o.WebHost = opts.WebHost
		o.WebPort = opts.WebPort
		o.LogLevel = opts.LogLevel
	}
}

// WithFolder sets the root directory track files are sharded under.
func WithFolder(folder string) OptionFunc {
	return func(o *Options) {
		folder = strings.TrimSpace(folder)
		if folder != "" {
			o.Folder = folder
		}
	}
}

// WithWebHost sets the address the HTTP API listens on.
func WithWebHost(host string) OptionFunc {
	return func(o *Options) {
		host = strings.TrimSpace(host)
		if host != "" {
			o.WebHost = host
		}
	}
}

// WithWebPort sets the port the HTTP API listens on.
func WithWebPort(port int) OptionFunc {
	return func(o *Options) {
		if port > 0 && port < 65536 {
			o.WebPort = port
		}
	}
}

// WithLogLevel sets the minimum severity the logger emits.
func WithLogLevel(level string) OptionFunc {
	return func(o *Options) {
		level = strings.TrimSpace(strings.ToLower(level))
		if level != "" {
			o.LogLevel = level
		}
	}
}
