package gen

import (
	"errors"
	"runtime"
)

// CaseStyle is an identifier casing rule.
type CaseStyle string

// Casing styles. Each naming axis accepts a subset of them.
const (
	CasePascal CaseStyle = "pascal"
	CaseParam  CaseStyle = "param"
	CaseCamel  CaseStyle = "camel"
	CaseSnake  CaseStyle = "snake"
	CaseNone   CaseStyle = "none"
)

// EOL is a line terminator convention.
type EOL string

// Line terminator conventions.
const (
	LF   EOL = "LF"
	CRLF EOL = "CRLF"
)

// Sequence returns the terminator characters.
func (e EOL) Sequence() string {
	if e == CRLF {
		return "\r\n"
	}
	return "\n"
}

// PlatformEOL is the line terminator of the running platform.
func PlatformEOL() EOL {
	if runtime.GOOS == "windows" {
		return CRLF
	}
	return LF
}

// Visibility is the access modifier printed before generated properties.
type Visibility string

// Property visibilities.
const (
	VisibilityPublic    Visibility = "public"
	VisibilityProtected Visibility = "protected"
	VisibilityPrivate   Visibility = "private"
	VisibilityNone      Visibility = "none"
)

// ExportType selects between named and default exports.
type ExportType string

// Export styles.
const (
	ExportNamed   ExportType = "named"
	ExportDefault ExportType = "default"
)

// StrictMode is the property initialization assertion printed after
// property names.
type StrictMode string

// Strict modes.
const (
	StrictNone       StrictMode = "none"
	StrictOptional   StrictMode = "?"
	StrictDefinitive StrictMode = "!"
)

// FormatterKind selects the formatter applied to rendered artifacts.
type FormatterKind string

// Formatters.
const (
	FormatterBuiltin  FormatterKind = "builtin"
	FormatterPrettier FormatterKind = "prettier"
	FormatterNone     FormatterKind = "none"
)

// Config holds the generation options of one run.
type Config struct {
	// ResultsPath is the root output directory.
	ResultsPath string

	CaseFile     CaseStyle
	CaseEntity   CaseStyle
	CaseProperty CaseStyle

	// EOL is applied to the entity artifact when it differs from the
	// platform default.
	EOL                EOL
	PropertyVisibility Visibility
	Lazy               bool
	ExportType         ExportType
	StrictMode         StrictMode

	// Passed through to templates.
	SkipSchema               bool
	RelationIds              bool
	ActiveRecord             bool
	GenerateConstructor      bool
	PluralizeNames           bool
	CustomNamingStrategyPath string

	// Reserved, recognized but without effect.
	NoConfigs bool
	IndexFile bool

	// TemplateDir overrides the embedded templates with <kind>.tmpl files.
	TemplateDir  string
	Formatter    FormatterKind
	PrettierPath string
	// Workers bounds the number of entities materialized concurrently.
	Workers int
	// Manifest records the checksums of written files in the results root.
	Manifest bool
	// GraphQLSchema emits schema.gql in the results root.
	GraphQLSchema bool
}

// DefaultConfig returns the default generation options.
func DefaultConfig() *Config {
	return &Config{
		ResultsPath:        "./output",
		CaseFile:           CaseParam,
		CaseEntity:         CasePascal,
		CaseProperty:       CaseCamel,
		EOL:                PlatformEOL(),
		PropertyVisibility: VisibilityNone,
		ExportType:         ExportNamed,
		StrictMode:         StrictNone,
		PluralizeNames:     true,
		Formatter:          FormatterBuiltin,
		PrettierPath:       "prettier",
		Workers:            1,
		Manifest:           true,
	}
}

// NewConfig creates a Config from the defaults and the given options,
// then validates it.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate reports every invalid option, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.ResultsPath == "" {
		errs = append(errs, NewConfigError("ResultsPath", nil, "results path cannot be empty"))
	}
	if err := checkStyle("CaseFile", c.CaseFile, fileStyles); err != nil {
		errs = append(errs, err)
	}
	if err := checkStyle("CaseEntity", c.CaseEntity, entityStyles); err != nil {
		errs = append(errs, err)
	}
	if err := checkStyle("CaseProperty", c.CaseProperty, propertyStyles); err != nil {
		errs = append(errs, err)
	}
	switch c.EOL {
	case LF, CRLF:
	default:
		errs = append(errs, NewConfigError("EOL", c.EOL, "use LF or CRLF"))
	}
	switch c.PropertyVisibility {
	case VisibilityPublic, VisibilityProtected, VisibilityPrivate, VisibilityNone:
	default:
		errs = append(errs, NewConfigError("PropertyVisibility", c.PropertyVisibility, "use public, protected, private or none"))
	}
	switch c.ExportType {
	case ExportNamed, ExportDefault:
	default:
		errs = append(errs, NewConfigError("ExportType", c.ExportType, "use named or default"))
	}
	switch c.StrictMode {
	case StrictNone, StrictOptional, StrictDefinitive:
	default:
		errs = append(errs, NewConfigError("StrictMode", c.StrictMode, `use none, "?" or "!"`))
	}
	switch c.Formatter {
	case FormatterBuiltin, FormatterPrettier, FormatterNone:
	default:
		errs = append(errs, NewConfigError("Formatter", c.Formatter, "use builtin, prettier or none"))
	}
	if c.Workers < 0 {
		errs = append(errs, NewConfigError("Workers", c.Workers, "workers cannot be negative"))
	}
	return errors.Join(errs...)
}
