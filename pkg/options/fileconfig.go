package options

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FileConfig is the optional on-disk configuration layer for a
// mission-transfer command. It is read once at startup and merged
// ahead of flags: a --vehicle flag always wins over a file entry with
// the same name.
type FileConfig struct {
	// Vehicles holds vehicle link specs in the same comma-separated form
	// accepted by the --vehicle flag.
	Vehicles []string `mapstructure:"vehicles"`
}

// LoadFileConfig reads path (format detected from its extension: yaml,
// yml, json, toml) into a FileConfig. An empty path is not an error;
// the caller gets a zero FileConfig and a nil watcher.
func LoadFileConfig(path string) (*FileConfig, *viper.Viper, error) {
	if path == "" {
		return &FileConfig{}, nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("options: read config file %q: %w", path, err)
	}

	cfg := &FileConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("options: parse config file %q: %w", path, err)
	}
	return cfg, v, nil
}

// WatchFileConfig arms v's fsnotify-backed watcher so every edit to the
// config file on disk invokes onChange. Vehicle topology is only read
// at process startup, so onChange exists to tell an operator a restart
// is needed, not to apply the new file live.
func WatchFileConfig(v *viper.Viper, onChange func(fsnotify.Event)) {
	if v == nil {
		return
	}
	v.OnConfigChange(onChange)
	v.WatchConfig()
}
