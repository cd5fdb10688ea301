package config

import (
	"fmt"
	"os"
	"time"

	"github.com/forgekit/forge/internal/output"
)

// Source indicates where a setting value came from.
type Source string

const (
	// SourceFlag indicates value came from a command-line flag.
	SourceFlag Source = "flag"
	// SourceEnv indicates value came from an environment variable.
	SourceEnv Source = "env"
	// SourceConfig indicates value came from the settings file.
	SourceConfig Source = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault Source = "default"
)

// ResolvedValue records how a single setting was resolved.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   Source
	Shadowed map[Source]string
}

// ResolveConfigPath resolves the settings file path using precedence:
// (1) --config-file flag, (2) FORGE_CONFIG env, (3) ~/.forge/config.yaml.
func ResolveConfigPath(flagValue string) (ResolvedValue, error) {
	result := ResolvedValue{Key: "configFile", Shadowed: make(map[Source]string)}

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	envValue := os.Getenv("FORGE_CONFIG")

	switch {
	case flagValue != "":
		result.Value, result.Source = flagValue, SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = paths.ConfigFile
	case envValue != "":
		result.Value, result.Source = envValue, SourceEnv
		result.Shadowed[SourceDefault] = paths.ConfigFile
	default:
		result.Value, result.Source = paths.ConfigFile, SourceDefault
	}

	return result, nil
}

// Overrides carries flag values. A nil field means the flag was not set.
type Overrides struct {
	TemplatesDir    *string
	Workers         *int
	ToolTimeout     *time.Duration
	StrictVariables *bool
	Force           *bool
	ExternalTools   *bool
}

// Apply applies o on top of s (flag > env/config/default) and returns the
// resolution record for each overridable setting.
func (o Overrides) Apply(s *Settings) []ResolvedValue {
	var values []ResolvedValue

	record := func(key string, flagSet bool, before, after any) {
		v := ResolvedValue{Key: key, Value: fmt.Sprint(after), Source: SourceConfig, Shadowed: map[Source]string{}}
		if flagSet {
			v.Source = SourceFlag
			v.Shadowed[SourceConfig] = fmt.Sprint(before)
		}
		values = append(values, v)
	}

	if o.TemplatesDir != nil {
		record("templatesDir", true, s.TemplatesDir, *o.TemplatesDir)
		s.TemplatesDir = *o.TemplatesDir
	} else {
		record("templatesDir", false, nil, s.TemplatesDir)
	}
	if o.Workers != nil {
		record("workers", true, s.Workers, *o.Workers)
		s.Workers = *o.Workers
	} else {
		record("workers", false, nil, s.Workers)
	}
	if o.ToolTimeout != nil {
		record("toolTimeout", true, s.ToolTimeout, *o.ToolTimeout)
		s.ToolTimeout = *o.ToolTimeout
	} else {
		record("toolTimeout", false, nil, s.ToolTimeout)
	}
	if o.StrictVariables != nil {
		record("strictVariables", true, s.StrictVariables, *o.StrictVariables)
		s.StrictVariables = *o.StrictVariables
	} else {
		record("strictVariables", false, nil, s.StrictVariables)
	}
	if o.Force != nil {
		record("force", true, s.Force, *o.Force)
		s.Force = *o.Force
	} else {
		record("force", false, nil, s.Force)
	}
	if o.ExternalTools != nil {
		record("externalTools", true, s.ExternalTools, *o.ExternalTools)
		s.ExternalTools = *o.ExternalTools
	} else {
		record("externalTools", false, nil, s.ExternalTools)
	}

	s.WithDefaults()
	return values
}

// LogResolvedValues logs setting resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("setting resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
