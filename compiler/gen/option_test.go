package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithResultsPath(t *testing.T) {
	t.Run("sets path", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithResultsPath("./src")(c))
		assert.Equal(t, "./src", c.ResultsPath)
	})

	t.Run("empty path returns error", func(t *testing.T) {
		c := &Config{ResultsPath: "existing"}
		err := WithResultsPath("")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Equal(t, "existing", c.ResultsPath)
	})
}

func TestWithCaseStyles(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		get     func(*Config) CaseStyle
		want    CaseStyle
		wantErr bool
	}{
		{"file param", WithCaseFile(CaseParam), func(c *Config) CaseStyle { return c.CaseFile }, CaseParam, false},
		{"file none", WithCaseFile(CaseNone), func(c *Config) CaseStyle { return c.CaseFile }, CaseNone, false},
		{"file snake", WithCaseFile(CaseSnake), nil, "", true},
		{"entity camel", WithCaseEntity(CaseCamel), func(c *Config) CaseStyle { return c.CaseEntity }, CaseCamel, false},
		{"entity param", WithCaseEntity(CaseParam), nil, "", true},
		{"property snake", WithCaseProperty(CaseSnake), func(c *Config) CaseStyle { return c.CaseProperty }, CaseSnake, false},
		{"property param", WithCaseProperty(CaseParam), nil, "", true},
		{"unknown", WithCaseFile("kebab"), nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := tt.opt(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.get(c))
		})
	}
}

func TestEnumOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{"eol lf", WithEOL(LF), false},
		{"eol crlf", WithEOL(CRLF), false},
		{"eol cr", WithEOL("CR"), true},
		{"visibility public", WithPropertyVisibility(VisibilityPublic), false},
		{"visibility none", WithPropertyVisibility(VisibilityNone), false},
		{"visibility internal", WithPropertyVisibility("internal"), true},
		{"export default", WithExportType(ExportDefault), false},
		{"export star", WithExportType("star"), true},
		{"strict optional", WithStrictMode(StrictOptional), false},
		{"strict definitive", WithStrictMode(StrictDefinitive), false},
		{"strict bang bang", WithStrictMode("!!"), true},
		{"formatter prettier", WithFormatter(FormatterPrettier), false},
		{"formatter gofmt", WithFormatter("gofmt"), true},
		{"prettier path", WithPrettierPath("/usr/bin/prettier"), false},
		{"empty prettier path", WithPrettierPath(""), true},
		{"workers", WithWorkers(8), false},
		{"zero workers", WithWorkers(0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opt(DefaultConfig())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestFlagOptions(t *testing.T) {
	c := &Config{}
	require.NoError(t, c.Apply(
		WithLazy(true),
		WithActiveRecord(true),
		WithRelationIds(true),
		WithSkipSchema(true),
		WithGenerateConstructor(true),
		WithPluralizeNames(true),
		WithNamingStrategy("./naming.js"),
		WithNoConfigs(true),
		WithIndexFile(true),
		WithTemplateDir("./templates"),
		WithManifest(true),
		WithGraphQLSchema(true),
	))

	assert.True(t, c.Lazy)
	assert.True(t, c.ActiveRecord)
	assert.True(t, c.RelationIds)
	assert.True(t, c.SkipSchema)
	assert.True(t, c.GenerateConstructor)
	assert.True(t, c.PluralizeNames)
	assert.Equal(t, "./naming.js", c.CustomNamingStrategyPath)
	assert.True(t, c.NoConfigs)
	assert.True(t, c.IndexFile)
	assert.Equal(t, "./templates", c.TemplateDir)
	assert.True(t, c.Manifest)
	assert.True(t, c.GraphQLSchema)
}

func TestApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithLazy(true), WithEOL("CR"), WithSkipSchema(true))

		require.Error(t, err)
		assert.True(t, c.Lazy)
		assert.False(t, c.SkipSchema)
	})

	t.Run("no options", func(t *testing.T) {
		c := &Config{}
		assert.NoError(t, c.Apply())
	})
}

func TestApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithEOL("CR"), WithLazy(true), WithWorkers(0))

		require.Error(t, err)
		assert.True(t, c.Lazy)
		assert.Contains(t, err.Error(), `"EOL"`)
		assert.Contains(t, err.Error(), `"Workers"`)
	})

	t.Run("all succeed", func(t *testing.T) {
		c := &Config{}
		assert.NoError(t, c.ApplyAll(WithLazy(true), WithExportType(ExportNamed)))
		assert.Equal(t, ExportNamed, c.ExportType)
	})
}
