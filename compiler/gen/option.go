package gen

import (
	"errors"
)

// Option configures code generation.
type Option func(*Config) error

// WithResultsPath sets the root output directory.
func WithResultsPath(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("ResultsPath", nil, "results path cannot be empty")
		}
		c.ResultsPath = dir
		return nil
	}
}

// WithCaseFile sets the file name casing: pascal, param, camel or none.
func WithCaseFile(style CaseStyle) Option {
	return func(c *Config) error {
		if err := checkStyle("CaseFile", style, fileStyles); err != nil {
			return err
		}
		c.CaseFile = style
		return nil
	}
}

// WithCaseEntity sets the type name casing: pascal, camel or none.
func WithCaseEntity(style CaseStyle) Option {
	return func(c *Config) error {
		if err := checkStyle("CaseEntity", style, entityStyles); err != nil {
			return err
		}
		c.CaseEntity = style
		return nil
	}
}

// WithCaseProperty sets the property name casing: pascal, camel, snake or none.
func WithCaseProperty(style CaseStyle) Option {
	return func(c *Config) error {
		if err := checkStyle("CaseProperty", style, propertyStyles); err != nil {
			return err
		}
		c.CaseProperty = style
		return nil
	}
}

// WithEOL sets the line terminator of the entity artifact.
func WithEOL(eol EOL) Option {
	return func(c *Config) error {
		if eol != LF && eol != CRLF {
			return NewConfigError("EOL", eol, "use LF or CRLF")
		}
		c.EOL = eol
		return nil
	}
}

// WithPropertyVisibility sets the access modifier of generated properties.
func WithPropertyVisibility(v Visibility) Option {
	return func(c *Config) error {
		switch v {
		case VisibilityPublic, VisibilityProtected, VisibilityPrivate, VisibilityNone:
			c.PropertyVisibility = v
			return nil
		}
		return NewConfigError("PropertyVisibility", v, "use public, protected, private or none")
	}
}

// WithLazy wraps relation types in Promise.
func WithLazy(lazy bool) Option {
	return func(c *Config) error {
		c.Lazy = lazy
		return nil
	}
}

// WithExportType sets named or default exports for generated symbols.
func WithExportType(t ExportType) Option {
	return func(c *Config) error {
		if t != ExportNamed && t != ExportDefault {
			return NewConfigError("ExportType", t, "use named or default")
		}
		c.ExportType = t
		return nil
	}
}

// WithStrictMode sets the property initialization assertion.
func WithStrictMode(m StrictMode) Option {
	return func(c *Config) error {
		switch m {
		case StrictNone, StrictOptional, StrictDefinitive:
			c.StrictMode = m
			return nil
		}
		return NewConfigError("StrictMode", m, `use none, "?" or "!"`)
	}
}

// WithActiveRecord makes generated entities extend BaseEntity.
func WithActiveRecord(on bool) Option {
	return func(c *Config) error {
		c.ActiveRecord = on
		return nil
	}
}

// WithRelationIds emits RelationId properties next to relations.
func WithRelationIds(on bool) Option {
	return func(c *Config) error {
		c.RelationIds = on
		return nil
	}
}

// WithSkipSchema omits the schema name from entity decorators.
func WithSkipSchema(on bool) Option {
	return func(c *Config) error {
		c.SkipSchema = on
		return nil
	}
}

// WithGenerateConstructor emits a partial-init constructor in entities.
func WithGenerateConstructor(on bool) Option {
	return func(c *Config) error {
		c.GenerateConstructor = on
		return nil
	}
}

// WithPluralizeNames pluralizes collection names in generated code.
func WithPluralizeNames(on bool) Option {
	return func(c *Config) error {
		c.PluralizeNames = on
		return nil
	}
}

// WithNamingStrategy sets the path of a custom naming strategy module.
func WithNamingStrategy(path string) Option {
	return func(c *Config) error {
		c.CustomNamingStrategyPath = path
		return nil
	}
}

// WithNoConfigs is reserved and has no effect on the output.
func WithNoConfigs(on bool) Option {
	return func(c *Config) error {
		c.NoConfigs = on
		return nil
	}
}

// WithIndexFile is reserved and has no effect on the output.
func WithIndexFile(on bool) Option {
	return func(c *Config) error {
		c.IndexFile = on
		return nil
	}
}

// WithTemplateDir loads <kind>.tmpl templates from dir instead of the
// embedded set.
func WithTemplateDir(dir string) Option {
	return func(c *Config) error {
		c.TemplateDir = dir
		return nil
	}
}

// WithFormatter selects the formatter: builtin, prettier or none.
func WithFormatter(kind FormatterKind) Option {
	return func(c *Config) error {
		switch kind {
		case FormatterBuiltin, FormatterPrettier, FormatterNone:
			c.Formatter = kind
			return nil
		}
		return NewConfigError("Formatter", kind, "use builtin, prettier or none")
	}
}

// WithPrettierPath sets the prettier executable.
func WithPrettierPath(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("PrettierPath", nil, "prettier path cannot be empty")
		}
		c.PrettierPath = path
		return nil
	}
}

// WithWorkers sets the number of entities materialized concurrently.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be at least 1")
		}
		c.Workers = n
		return nil
	}
}

// WithManifest toggles the generation manifest.
func WithManifest(on bool) Option {
	return func(c *Config) error {
		c.Manifest = on
		return nil
	}
}

// WithGraphQLSchema toggles schema.gql emission.
func WithGraphQLSchema(on bool) Option {
	return func(c *Config) error {
		c.GraphQLSchema = on
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
