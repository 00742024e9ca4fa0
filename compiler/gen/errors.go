package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidConfig indicates a configuration error.
	ErrInvalidConfig = errors.New("nestgen: invalid configuration")
	// ErrGenerationFailed indicates a fatal generation failure.
	ErrGenerationFailed = errors.New("nestgen: code generation failed")
	// ErrArtifact indicates a non-fatal failure of a single artifact.
	ErrArtifact = errors.New("nestgen: artifact failed")
	// ErrGeneratorDone is returned when a Generator is run twice.
	ErrGeneratorDone = errors.New("nestgen: generator already ran")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("nestgen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("nestgen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a fatal code generation error.
type GenerationError struct {
	Phase   string // "mkdir", "write", "manifest", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("nestgen: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// ArtifactError reports that one artifact of one entity could not be
// rendered or formatted. It never aborts a run.
type ArtifactError struct {
	Table    string // SQLName of the entity
	Artifact Kind
	Phase    string // "render" or "format"
	Cause    error
}

// Error implements the error interface.
func (e *ArtifactError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nestgen: %s of %s failed for table %s", e.Phase, e.Artifact, e.Table)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ArtifactError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ArtifactError.
func (e *ArtifactError) Is(target error) bool {
	return target == ErrArtifact
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsArtifactError reports whether the error is an ArtifactError.
func IsArtifactError(err error) bool {
	var artErr *ArtifactError
	return errors.As(err, &artErr)
}
