package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/toyz/axonlint/internal/detector"
	"github.com/toyz/axonlint/internal/errors"
	"github.com/toyz/axonlint/internal/models"
	"github.com/toyz/axonlint/internal/optionality"
	"github.com/toyz/axonlint/internal/routes"
	"github.com/toyz/axonlint/internal/utils"
)

const (
	// ConfigName is the base name of the configuration file, without extension
	ConfigName = ".axonlint"

	// EnvPrefix prefixes environment variables overriding configuration keys
	EnvPrefix = "AXONLINT"
)

// Config holds the configuration for a check or fix run
type Config struct {
	// Methods is the set of method names whose calls register a route
	Methods []string `mapstructure:"methods"`

	// Annotations enables //axon::route annotations on controller methods
	Annotations bool `mapstructure:"annotations"`

	// NullableStyle names how fixes make a type nullable: pointer or suffix
	NullableStyle string `mapstructure:"nullable_style"`

	// Severity overrides the rule's default severity: info, warning or error
	Severity string `mapstructure:"severity"`

	// Concurrency bounds how many packages are analyzed at once
	Concurrency int `mapstructure:"concurrency"`

	// CacheSize bounds the per-run template cache
	CacheSize int `mapstructure:"cache_size"`

	// Exclude lists glob patterns of files whose registrations are ignored
	Exclude []string `mapstructure:"exclude"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `mapstructure:"verbose"`

	// Quiet only shows errors and findings
	Quiet bool `mapstructure:"quiet"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no_color"`

	// File is the configuration file that was read, if any
	File string `mapstructure:"-"`

	// Module is the Go module enclosing the working directory, if any
	Module utils.Module `mapstructure:"-"`
}

// DefaultConfig returns the configuration used when no file or environment overrides exist
func DefaultConfig() Config {
	return Config{
		Methods:       detector.DefaultConfig().Methods,
		Annotations:   true,
		NullableStyle: optionality.PointerStyle.Name(),
		Severity:      models.SeverityWarning.String(),
		Concurrency:   4,
		CacheSize:     routes.DefaultCacheSize,
	}
}

// NewViper creates a viper instance preloaded with defaults and environment bindings
func NewViper() *viper.Viper {
	v := viper.New()
	defaults := DefaultConfig()

	v.SetDefault("methods", defaults.Methods)
	v.SetDefault("annotations", defaults.Annotations)
	v.SetDefault("nullable_style", defaults.NullableStyle)
	v.SetDefault("severity", defaults.Severity)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("exclude", []string{})
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// LoadConfig reads configuration from file, environment and bound flags.
// Without an explicit file, .axonlint.yaml is searched in workDir and then in the
// root of the enclosing module. A missing file is not an error.
func LoadConfig(v *viper.Viper, explicitFile, workDir string) (Config, error) {
	module, moduleErr := utils.FindModule(workDir)

	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(workDir)
		if moduleErr == nil && module.Root != workDir {
			v.AddConfigPath(module.Root)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicitFile != "" || !stderrors.As(err, &notFound) {
			source := explicitFile
			if source == "" {
				source = ConfigName + ".yaml"
			}
			return Config{}, errors.WrapConfigurationError(source, "read", err).
				WithSuggestion("Check the YAML syntax of the configuration file")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.WrapConfigurationError(v.ConfigFileUsed(), "decode", err)
	}
	config.File = v.ConfigFileUsed()
	if moduleErr == nil {
		config.Module = module
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks every configuration value and reports all problems at once
func (c Config) Validate() error {
	var problems *errors.MultipleErrors

	check := func(field, expected string, value interface{}, err error) {
		if err == nil {
			return
		}
		verr := errors.NewValidationError(field, expected, toString(value))
		verr.WithSuggestion(err.Error())
		if c.File != "" {
			verr.WithLocation(errors.SourceLocation{File: c.File})
		}
		errors.AddToMultiple(&problems, verr)
	}

	methods := utils.NewValidatorChain(
		utils.SliceNotEmpty[string]("methods"),
		utils.ValidateEach("methods", utils.IsValidGoIdentifier("method")),
	)
	check("methods", "a list of Go identifiers", c.Methods, methods.Validate(c.Methods))

	check("nullable_style", "pointer or suffix", c.NullableStyle,
		utils.IsOneOf("nullable_style", "pointer", "suffix")(c.NullableStyle))

	_, severityOK := models.ParseSeverity(c.Severity)
	check("severity", "info, warning or error", c.Severity,
		utils.Custom("severity", "unknown severity", func(string) bool { return severityOK })(c.Severity))

	check("concurrency", "a positive number", c.Concurrency,
		utils.Custom("concurrency", "must be at least 1", func(n int) bool { return n > 0 })(c.Concurrency))

	check("cache_size", "a positive number", c.CacheSize,
		utils.Custom("cache_size", "must be at least 1", func(n int) bool { return n > 0 })(c.CacheSize))

	check("exclude", "glob patterns", c.Exclude,
		utils.ValidateEach("exclude", utils.IsGlob("exclude"))(c.Exclude))

	return problems.ErrOrNil()
}

// DetectorConfig returns the detector settings of the configuration
func (c Config) DetectorConfig() detector.Config {
	return detector.Config{
		Methods:     c.Methods,
		Annotations: c.Annotations,
	}
}

// Style returns the configured nullable style
func (c Config) Style() optionality.NullableStyle {
	style, err := optionality.StyleByName(c.NullableStyle)
	if err != nil {
		return optionality.PointerStyle
	}
	return style
}

// SeverityLevel returns the configured severity
func (c Config) SeverityLevel() models.Severity {
	severity, ok := models.ParseSeverity(c.Severity)
	if !ok {
		return optionality.MismatchedParameterOptionality.Severity
	}
	return severity
}

// DiagnosticLevel maps the quiet and verbose switches to an output level
func (c Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case string:
		return "'" + v + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}
