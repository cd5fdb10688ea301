package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for forge.
type Paths struct {
	// ConfigFile is the settings file (~/.forge/config.yaml).
	ConfigFile string

	// TemplatesDir is the user template catalog (~/.forge/templates).
	TemplatesDir string

	// HomeDir is the forge home directory (~/.forge).
	HomeDir string
}

// DefaultPaths returns the default paths for forge.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	forgeHome := filepath.Join(homeDir, ".forge")

	return &Paths{
		ConfigFile:   filepath.Join(forgeHome, "config.yaml"),
		TemplatesDir: filepath.Join(forgeHome, "templates"),
		HomeDir:      forgeHome,
	}, nil
}

// GetConfigFile returns the settings file path.
// FORGE_CONFIG takes precedence over the default.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv("FORGE_CONFIG"); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported
	return path, nil
}
