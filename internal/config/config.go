package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pstansell/netgrep/internal/log"
	"github.com/pstansell/netgrep/internal/utils"
)

const (
	// EnvConfigPath overrides the default config file location.
	EnvConfigPath = "NETGREP_CONFIG"
	// EnvFilePattern overrides general.file_pattern.
	EnvFilePattern = "NETGREP_FILE_PATTERN"
)

// DefaultConfigPath returns the config file path to use when -config is
// not given: $NETGREP_CONFIG if set, otherwise ~/.config/netgrep/netgrep.conf.
func DefaultConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	return utils.ExpandHome("~/.config/netgrep/netgrep.conf")
}

// LoadConfig reads and parses the configuration file. A missing file is
// not an error: the built-in defaults apply. The NETGREP_FILE_PATTERN
// environment variable, when set, overrides general.file_pattern from
// whichever source won.
func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %v", err)
		} else {
			configFile = path
		}
	}

	var config *Config
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Debugf("Configuration file not found, using built-in defaults: %s", configFile)
		config = DefaultConfig()
	} else {
		content, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}

		config = &Config{}
		if err := toml.Unmarshal(content, config); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				log.Errorf("%s", derr.String())
				row, col := derr.Position()
				log.Errorf("Error at line %d, column %d", row, col)
				return nil, fmt.Errorf("failed to parse config file")
			}
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}

		applyMissingDefaults(config)
	}

	config._absConfigFilePath = configFile

	if pattern := os.Getenv(EnvFilePattern); pattern != "" {
		log.Debugf("Overriding file pattern from %s: %s", EnvFilePattern, pattern)
		config.General.FilePattern = pattern
	}

	log.Debugf("Configuration file path: %s", configFile)
	log.Debugf("File pattern: %s", config.GetAbsFilePattern())

	return config, nil
}

// GetAbsFilePattern returns the configured file pattern with any
// leading ~ or $HOME expanded.
func (c *Config) GetAbsFilePattern() string {
	return utils.ExpandHome(c.General.FilePattern)
}

// GetAliasByName returns the alias with the given name, or nil.
func (c *Config) GetAliasByName(name string) *AliasConfig {
	for _, a := range c.Aliases {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// GetAbsAliasFilePath resolves an alias list file relative to the
// config file directory and checks that it exists.
func (c *Config) GetAbsAliasFilePath(alias *AliasConfig) (string, error) {
	path := utils.GetAbsolutePath(utils.ExpandHome(alias.File), filepath.Dir(c._absConfigFilePath))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("alias %s list file \"%s\" does not exist, check your configuration", alias.Name, path)
	}
	return path, nil
}
