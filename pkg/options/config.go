package options

import (
	"github.com/BurntSushi/toml"

	"github.com/arkforge/tracked/pkg/filesys"
)

// fileConfig mirrors the on-disk TOML layout:
//
//	[tracks]
//	folder = "/var/lib/tracks"
//
//	[web]
//	host = "127.0.0.1"
//	port = 9441
//
//	[log]
//	level = "debug"
//
// Unknown keys are ignored by toml.Decode, matching the original's
// serde-derived config loader.
type fileConfig struct {
	Tracks struct {
		Folder string `toml:"folder"`
	} `toml:"tracks"`
	Web struct {
		Host string `toml:"host"`
		Port int    `toml:"port"`
	} `toml:"web"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
}

// Default search locations tried in order when no explicit path is given.
const (
	LocalConfigPath  = "./tracked.toml"
	SystemConfigPath = "/etc/tracked/tracked.toml"
)

// Load resolves the daemon's configuration from a TOML file.
//
// Candidates are tried in order: the explicit path (if given), then
// LocalConfigPath, then SystemConfigPath. The first candidate that exists
// and decodes cleanly wins. A candidate that is missing, unreadable, or
// fails to parse is skipped in favor of the next one — including an
// explicitly-given path — rather than hard-failing; if every candidate
// fails, Load falls back to the built-in defaults without error.
func Load(path string) (Options, error) {
	opts := NewDefaultOptions()

	candidates := make([]string, 0, 3)
	if path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, LocalConfigPath, SystemConfigPath)

	for _, candidate := range candidates {
		fc, ok := tryLoad(candidate)
		if !ok {
			continue
		}

		apply := []OptionFunc{}
		if fc.Tracks.Folder != "" {
			apply = append(apply, WithFolder(fc.Tracks.Folder))
		}
		if fc.Web.Host != "" {
			apply = append(apply, WithWebHost(fc.Web.Host))
		}
		if fc.Web.Port != 0 {
			apply = append(apply, WithWebPort(fc.Web.Port))
		}
		if fc.Log.Level != "" {
			apply = append(apply, WithLogLevel(fc.Log.Level))
		}

		for _, fn := range apply {
			fn(&opts)
		}

		return opts, nil
	}

	return opts, nil
}

// tryLoad reads and decodes one candidate path, returning ok=false when
// the file doesn't exist, can't be read, or fails to parse as TOML — any
// of which simply moves Load on to the next candidate rather than
// failing the whole load.
func tryLoad(path string) (fileConfig, bool) {
	var fc fileConfig

	exists, err := filesys.Exists(path)
	if err != nil || !exists {
		return fc, false
	}

	contents, err := filesys.ReadFile(path)
	if err != nil {
		return fc, false
	}

	if _, err := toml.Decode(string(contents), &fc); err != nil {
		return fc, false
	}

	return fc, true
}
