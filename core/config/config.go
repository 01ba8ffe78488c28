package config

import (
	_ "embed"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

// Configuration is an immutable snapshot of the shell settings, it's handed to
// the policy engine and executor at construction time.
type Configuration struct {
	Security     Security     `json:"security"`
	Limits       Limits       `json:"limits"`
	Interpreters Interpreters `json:"interpreters"`
	UI           UI           `json:"ui"`
	Logging      Logging      `json:"logging"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

type Security struct {
	AllowedCommands  []string `json:"allowed_commands" validate:"unique,dive,required"`
	BlockedCommands  []string `json:"blocked_commands" validate:"unique,dive,required"`
	MaxCommandLength int      `json:"max_command_length" validate:"gt=0"`
	MaxArgCount      int      `json:"max_arg_count" validate:"gt=0"`
	ValidatePaths    bool     `json:"validate_paths"`
	SanitizeInput    bool     `json:"sanitize_input"`

	AllowedPathPrefixes []string `json:"allowed_path_prefixes" validate:"dive,startswith=/"`

	SanitizeEnvironment bool   `json:"sanitize_environment"`
	SafePath            string `json:"safe_path"`
}

type Limits struct {
	MaxBackgroundProcesses int   `json:"max_background_processes" validate:"gt=0"`
	MaxPipelineLength      int   `json:"max_pipeline_length" validate:"gt=0"`
	CommandTimeoutSeconds  int   `json:"command_timeout_seconds" validate:"gt=0"`
	MaxOutputBytes         int64 `json:"max_output_bytes" validate:"gte=0"`

	SpawnRate  float64 `json:"spawn_rate" validate:"gte=0"`
	SpawnBurst int64   `json:"spawn_burst" validate:"gte=0"`
}

// CommandTimeout is the wall clock limit for monitored commands.
func (l Limits) CommandTimeout() time.Duration {
	return time.Duration(l.CommandTimeoutSeconds) * time.Second
}

// Interpreters holds the launchers used for script files. Each launcher may
// include flags, e.g. "python3 -u".
type Interpreters struct {
	EnableScripts bool   `json:"enable_scripts"`
	PythonPath    string `json:"python_path" validate:"required"`
	RubyPath      string `json:"ruby_path" validate:"required"`
	NodePath      string `json:"node_path" validate:"required"`
}

type UI struct {
	EnableColors bool   `json:"enable_colors"`
	PromptColor  string `json:"prompt_color" validate:"oneof=black red green yellow blue magenta cyan white"`
	Prompt       string `json:"prompt"`
}

type Logging struct {
	Level  string `json:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" validate:"oneof=console json"`
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// DefaultYAML returns the contents of the built-in configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigData...)
}
