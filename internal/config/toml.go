// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Log      LogConfig      `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Mode     *string `toml:"mode"`
	Time     *int    `toml:"time"`
	Words    *int    `toml:"words"`
	Variant  *string `toml:"variant"`
	WordList *string `toml:"wordlist"`
}

// LogConfig maps logging settings. An empty file disables logging.
type LogConfig struct {
	Level      *string `toml:"level"`
	File       *string `toml:"file"`
	MaxSizeMB  *int    `toml:"max-size"`
	MaxBackups *int    `toml:"max-backups"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written when the config file is created by the config command.
const Template = `# typefast configuration

[practice]
# mode = "words"        # words, time, quote
# time = 30             # seconds, time mode
# words = 25            # word count, words mode
# variant = "plain"     # plain, numbers, punctuation, mixed
# wordlist = ""         # one word per line, replaces the built-in list

[log]
# level = "info"
# file = ""             # empty disables logging
# max-size = 10         # megabytes before rotation
# max-backups = 3
`
