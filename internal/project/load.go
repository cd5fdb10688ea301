package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"sigs.k8s.io/yaml"

	oerrors "github.com/forgekit/forge/internal/errors"
)

// Load reads a project configuration document (JSON or YAML) from path,
// validates its structure and semantics, and returns it. Every failure is
// a configuration error except a missing file, which is a not found error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, oerrors.NewNotFoundError(
			fmt.Sprintf("project configuration %s does not exist", path),
			path,
			"Pass an existing file with --config",
		)
	}
	if err != nil {
		return nil, fmt.Errorf("reading project configuration: %w", err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a project configuration document. source
// names the document in error messages.
func Parse(data []byte, source string) (*Config, error) {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, configurationError(ValidationErrors{{Message: fmt.Sprintf("malformed document: %v", err)}}, source)
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateJSON(jsonData, source); err != nil {
		var errs ValidationErrors
		if errors.As(err, &errs) {
			return nil, configurationError(errs, source)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, configurationError(ValidationErrors{{Message: fmt.Sprintf("decoding document: %v", err)}}, source)
	}

	if errs := cfg.validate(); len(errs) > 0 {
		return nil, configurationError(errs, source)
	}
	return &cfg, nil
}

// Marshal encodes cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
