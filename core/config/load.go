package config

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Environment variables that override values from the configuration file.
const (
	EnvMaxCommandLength = "GATESH_MAX_COMMAND_LENGTH"
	EnvPythonPath       = "GATESH_PYTHON_PATH"
	EnvRubyPath         = "GATESH_RUBY_PATH"
	EnvNodePath         = "GATESH_NODE_PATH"
	EnvEnableColors     = "GATESH_ENABLE_COLORS"
	EnvLogLevel         = "GATESH_LOG_LEVEL"
	EnvSanitizeInput    = "GATESH_SANITIZE_INPUT"
	EnvValidatePaths    = "GATESH_VALIDATE_PATHS"
)

// Load loads the configuration from the directory. Values missing from the
// file keep their defaults.
func Load(fs afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configContents, err := afero.ReadFile(fs, filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}

	return Parse(configContents)
}

// Parse reads a configuration file's contents over the defaults and validates
// the result.
func Parse(contents []byte) (*Configuration, error) {
	out := Default()
	if err := yaml.UnmarshalStrict(contents, out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyEnv overrides configuration values from environment variables using
// the given lookup function, usually os.LookupEnv. The result is validated.
func (c *Configuration) ApplyEnv(lookup func(string) (string, bool)) error {
	if val, ok := lookup(EnvMaxCommandLength); ok {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxCommandLength, err)
		}
		c.Security.MaxCommandLength = n
	}

	stringVars := map[string]*string{
		EnvPythonPath: &c.Interpreters.PythonPath,
		EnvRubyPath:   &c.Interpreters.RubyPath,
		EnvNodePath:   &c.Interpreters.NodePath,
		EnvLogLevel:   &c.Logging.Level,
	}
	for env, field := range stringVars {
		if val, ok := lookup(env); ok {
			*field = val
		}
	}

	boolVars := map[string]*bool{
		EnvEnableColors:  &c.UI.EnableColors,
		EnvSanitizeInput: &c.Security.SanitizeInput,
		EnvValidatePaths: &c.Security.ValidatePaths,
	}
	for env, field := range boolVars {
		val, ok := lookup(env)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s: %w", env, err)
		}
		*field = b
	}

	return c.Validate()
}

// Marshal encodes the configuration as YAML.
func (c *Configuration) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
