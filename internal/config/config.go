// Package config loads generator settings from a nestgen.yaml (or .json,
// .toml) file, NESTGEN_* environment variables and .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/syssam/nestgen/compiler/gen"
)

// EnvPrefix prefixes every environment variable, e.g. NESTGEN_OUTPUT.
const EnvPrefix = "NESTGEN"

// Config mirrors the configuration file. Keys are snake_case.
type Config struct {
	Model  string `json:"model" mapstructure:"model"`
	Output string `json:"output" mapstructure:"output"`

	CaseFile           string `json:"case_file" mapstructure:"case_file"`
	CaseEntity         string `json:"case_entity" mapstructure:"case_entity"`
	CaseProperty       string `json:"case_property" mapstructure:"case_property"`
	EOL                string `json:"eol" mapstructure:"eol"` // empty means the platform default
	PropertyVisibility string `json:"property_visibility" mapstructure:"property_visibility"`
	ExportType         string `json:"export_type" mapstructure:"export_type"`
	StrictMode         string `json:"strict_mode" mapstructure:"strict_mode"`

	Lazy                bool   `json:"lazy" mapstructure:"lazy"`
	ActiveRecord        bool   `json:"active_record" mapstructure:"active_record"`
	RelationIds         bool   `json:"relation_ids" mapstructure:"relation_ids"`
	SkipSchema          bool   `json:"skip_schema" mapstructure:"skip_schema"`
	GenerateConstructor bool   `json:"generate_constructor" mapstructure:"generate_constructor"`
	PluralizeNames      bool   `json:"pluralize" mapstructure:"pluralize"`
	NamingStrategy      string `json:"naming_strategy" mapstructure:"naming_strategy"`
	NoConfigs           bool   `json:"no_config" mapstructure:"no_config"`
	IndexFile           bool   `json:"index_file" mapstructure:"index_file"`

	Templates     string `json:"templates" mapstructure:"templates"`
	Formatter     string `json:"formatter" mapstructure:"formatter"`
	PrettierPath  string `json:"prettier_path" mapstructure:"prettier_path"`
	Workers       int    `json:"workers" mapstructure:"workers"`
	Manifest      bool   `json:"manifest" mapstructure:"manifest"`
	GraphQLSchema bool   `json:"graphql_schema" mapstructure:"graphql_schema"`

	LogLevel string `json:"log_level" mapstructure:"log_level"`
}

// SetDefaults registers every key with its default. Keys without a
// default are invisible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := gen.DefaultConfig()
	v.SetDefault("model", "")
	v.SetDefault("output", d.ResultsPath)
	v.SetDefault("case_file", string(d.CaseFile))
	v.SetDefault("case_entity", string(d.CaseEntity))
	v.SetDefault("case_property", string(d.CaseProperty))
	v.SetDefault("eol", "")
	v.SetDefault("property_visibility", string(d.PropertyVisibility))
	v.SetDefault("export_type", string(d.ExportType))
	v.SetDefault("strict_mode", string(d.StrictMode))
	v.SetDefault("lazy", d.Lazy)
	v.SetDefault("active_record", d.ActiveRecord)
	v.SetDefault("relation_ids", d.RelationIds)
	v.SetDefault("skip_schema", d.SkipSchema)
	v.SetDefault("generate_constructor", d.GenerateConstructor)
	v.SetDefault("pluralize", d.PluralizeNames)
	v.SetDefault("naming_strategy", "")
	v.SetDefault("no_config", d.NoConfigs)
	v.SetDefault("index_file", d.IndexFile)
	v.SetDefault("templates", "")
	v.SetDefault("formatter", string(d.Formatter))
	v.SetDefault("prettier_path", d.PrettierPath)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("manifest", d.Manifest)
	v.SetDefault("graphql_schema", d.GraphQLSchema)
	v.SetDefault("log_level", "info")
}

// Init prepares v: .env files are loaded into the environment, NESTGEN_*
// variables are bound and the configuration file is read. Without an
// explicit file, ./nestgen.{yaml,json,toml} is used when present.
func Init(v *viper.Viper, file string, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env.local", ".env"}
	}
	for _, f := range envFiles {
		// Missing files are fine; existing variables are never overridden.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("nestgen")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Load unmarshals the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Options converts the settings into generator options.
func (c *Config) Options() []gen.Option {
	opts := []gen.Option{
		gen.WithResultsPath(c.Output),
		gen.WithCaseFile(gen.CaseStyle(strings.ToLower(c.CaseFile))),
		gen.WithCaseEntity(gen.CaseStyle(strings.ToLower(c.CaseEntity))),
		gen.WithCaseProperty(gen.CaseStyle(strings.ToLower(c.CaseProperty))),
		gen.WithPropertyVisibility(gen.Visibility(strings.ToLower(c.PropertyVisibility))),
		gen.WithExportType(gen.ExportType(strings.ToLower(c.ExportType))),
		gen.WithStrictMode(gen.StrictMode(c.StrictMode)),
		gen.WithLazy(c.Lazy),
		gen.WithActiveRecord(c.ActiveRecord),
		gen.WithRelationIds(c.RelationIds),
		gen.WithSkipSchema(c.SkipSchema),
		gen.WithGenerateConstructor(c.GenerateConstructor),
		gen.WithPluralizeNames(c.PluralizeNames),
		gen.WithNamingStrategy(c.NamingStrategy),
		gen.WithNoConfigs(c.NoConfigs),
		gen.WithIndexFile(c.IndexFile),
		gen.WithTemplateDir(c.Templates),
		gen.WithFormatter(gen.FormatterKind(strings.ToLower(c.Formatter))),
		gen.WithWorkers(c.Workers),
		gen.WithManifest(c.Manifest),
		gen.WithGraphQLSchema(c.GraphQLSchema),
	}
	if c.EOL != "" {
		opts = append(opts, gen.WithEOL(gen.EOL(strings.ToUpper(c.EOL))))
	}
	if c.PrettierPath != "" {
		opts = append(opts, gen.WithPrettierPath(c.PrettierPath))
	}
	return opts
}

// GenConfig builds and validates the generator configuration. Every
// invalid setting is reported.
func (c *Config) GenConfig() (*gen.Config, error) {
	return gen.NewConfig(c.Options()...)
}

// Validate reports settings the generator would reject.
func (c *Config) Validate() error {
	_, err := c.GenConfig()
	return err
}
