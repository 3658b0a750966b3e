// Package config loads locus settings from YAML.
package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/toyz/locus/internal/descriptor"
	"github.com/toyz/locus/internal/errors"
	"github.com/toyz/locus/internal/registry"
	"github.com/toyz/locus/internal/source"
	"github.com/toyz/locus/internal/utils"
)

// FileName is the config file looked up in a project directory
const FileName = "locus.yaml"

// Config holds all configuration for locus.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Naming  NamingConfig  `yaml:"naming"`
	Cache   CacheConfig   `yaml:"cache"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig controls where and how source files are found and parsed.
type SourceConfig struct {
	Roots     []string `yaml:"roots"`
	Extension string   `yaml:"extension"`
	Parser    string   `yaml:"parser"` // "participle" or "treesitter"
	Search    bool     `yaml:"search"` // recursive fallback when the package path is missing
	Excludes  []string `yaml:"excludes"`
}

// NamingConfig selects simple or canonical compiled type names.
type NamingConfig struct {
	Qualified bool `yaml:"qualified"`
}

// CacheConfig controls the persistent tree cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "json" or "yaml"
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OutputFormats lists the accepted report formats
var OutputFormats = []string{"text", "json", "yaml"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Roots:     []string{"src/main/java"},
			Extension: source.DefaultExtension,
			Parser:    "participle",
			Search:    true,
			Excludes:  []string{"**/build/**", "**/target/**", "**/.git/**"},
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(".locus", "trees.db"),
		},
		Output: OutputConfig{
			Format: "text",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:7878",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.WrapConfigurationError(path, "read", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapConfigurationError(path, "parse", err)
	}

	return cfg, nil
}

// LoadFromDir loads locus.yaml or .locus/config.yaml from dir, falling back
// to the defaults.
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".locus", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.WrapConfigurationError(path, "encode", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapFileSystemError("create directory for", path, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapFileSystemError("write", path, err)
	}
	return nil
}

// CompiledNaming returns the compiled type naming the config selects
func (c *Config) CompiledNaming() descriptor.Naming {
	return descriptor.NamingFor(c.Naming.Qualified)
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	problems := errors.NewMultipleErrors()
	check := func(err error) {
		if err == nil {
			return
		}
		var ve utils.ValidationError
		if !stderrors.As(err, &ve) {
			problems.Add(errors.ConfigurationError("", err.Error()))
			return
		}
		problems.Add(errors.ConfigurationError(ve.Field, ve.Message).WithSuggestions(ve.Suggestions...))
	}

	parsers := registry.NewParserRegistry()
	cacheEnabled := func() bool { return c.Cache.Enabled }

	check(utils.NewValidatorChain(
		utils.NonEmpty[string]("source.roots"),
		utils.Each("source.roots", utils.Required("root")),
	).Validate(c.Source.Roots))
	check(utils.FileExtension("source.extension").Suggest("use an extension such as .java")(c.Source.Extension))
	check(utils.Satisfies("source.parser", fmt.Sprintf("unknown parser '%s'", c.Source.Parser), parsers.HasParser).
		Suggest("use participle or treesitter")(c.Source.Parser))
	check(utils.Each("source.excludes", utils.Glob("pattern"))(c.Source.Excludes))
	check(utils.When(cacheEnabled, utils.Required("cache.path").Suggest("set cache.path or disable the cache"))(c.Cache.Path))
	check(utils.OneOf("output.format", OutputFormats...)(c.Output.Format))
	check(utils.ListenAddress("server.addr")(c.Server.Addr))
	if _, err := utils.ParseDiagnosticLevel(c.Logging.Level); err != nil {
		problems.Add(errors.ConfigurationError("logging.level", err.Error()))
	}

	return problems.ErrOrNil()
}
