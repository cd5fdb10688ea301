package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for forge settings.
const envPrefix = "FORGE"

// Loader handles loading and merging settings from file, env and defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new settings loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("templatesDir", "FORGE_TEMPLATES_DIR")
	_ = v.BindEnv("workers", "FORGE_WORKERS")
	_ = v.BindEnv("toolTimeout", "FORGE_TOOL_TIMEOUT")
	_ = v.BindEnv("strictVariables", "FORGE_STRICT_VARIABLES")
	_ = v.BindEnv("force", "FORGE_FORCE")
	_ = v.BindEnv("externalTools", "FORGE_EXTERNAL_TOOLS")
	_ = v.BindEnv("log.timestamps", "FORGE_LOG_TIMESTAMPS")

	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("toolTimeout", DefaultToolTimeout)

	return &Loader{v: v}
}

// Load loads settings from configFile. An empty configFile means the
// default path. A missing file is not an error; env vars and defaults apply.
func (l *Loader) Load(configFile string) (*Settings, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	return s.WithDefaults(), nil
}

// ConfigFileUsed returns the settings file viper read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
