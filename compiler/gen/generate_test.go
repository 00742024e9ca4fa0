package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nestgen/schema"
)

func TestGenerator(t *testing.T) {
	cfg := testConfig(t, WithGraphQLSchema(true))
	logger, _ := test.NewNullLogger()
	g := NewGenerator(cfg).WithLogger(logger)
	assert.Equal(t, StateIdle, g.State())

	res, err := g.Generate(context.Background(), testModel())
	require.NoError(t, err)
	assert.Equal(t, StateDone, g.State())

	assert.Equal(t, []string{"UserModule", "PostModule"}, res.ModuleNames())
	assert.Equal(t, "./post/post.module", res.Modules[1].Path)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.Edited)
	assert.Len(t, res.Files, 2*len(Kinds)+1)
	assert.Equal(t, 2*len(Kinds), res.Metrics.FilesGenerated)

	for _, name := range res.Files {
		assert.FileExists(t, filepath.Join(cfg.ResultsPath, filepath.FromSlash(name)))
	}
	for _, dir := range []string{"user/entities", "user/dto", "user/repository", "post/entities"} {
		assert.DirExists(t, filepath.Join(cfg.ResultsPath, filepath.FromSlash(dir)))
	}
	assert.FileExists(t, filepath.Join(cfg.ResultsPath, ManifestFile))
	assert.FileExists(t, filepath.Join(cfg.ResultsPath, GraphQLSchemaFile))

	entity, err := os.ReadFile(filepath.Join(cfg.ResultsPath, "user", "entities", "user.entity.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(entity), "posts: Post[];")

	_, err = g.Generate(context.Background(), testModel())
	assert.ErrorIs(t, err, ErrGeneratorDone)
}

func TestGeneratorInvalidModel(t *testing.T) {
	tests := []struct {
		name    string
		model   func() []*schema.Entity
		wantErr string
	}{
		{
			name: "duplicate type name",
			model: func() []*schema.Entity {
				m := testModel()
				m[1].TscName = "User"
				return m
			},
		},
		{
			name:    "nil entity",
			model:   func() []*schema.Entity { return []*schema.Entity{nil} },
			wantErr: "nil entity",
		},
		{
			name: "file names collide after casing",
			model: func() []*schema.Entity {
				m := testModel()
				m[1].FileName = "user"
				return m
			},
			wantErr: `resource directory "user" already used by entity User`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "out")
			cfg := testConfig(t, WithResultsPath(root))

			var err error
			require.NotPanics(t, func() {
				_, err = NewGenerator(cfg).Generate(context.Background(), tt.model())
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, schema.ErrInvalidModel)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
			assert.NoDirExists(t, root)
		})
	}
}

func TestGeneratorDistinctFileNames(t *testing.T) {
	// Without casing "User" and "user" are distinct directories.
	cfg := testConfig(t, WithCaseFile(CaseNone))
	model := testModel()
	model[1].FileName = "user"

	res, err := NewGenerator(cfg).Generate(context.Background(), model)
	require.NoError(t, err)
	assert.Equal(t, "./user/user.module", res.Modules[1].Path)
}

func TestGeneratorInvalidConfig(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewGenerator(nil).Generate(context.Background(), testModel())
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("invalid option", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "out")
		cfg := testConfig(t, WithResultsPath(root))
		cfg.CaseFile = CaseSnake

		_, err := NewGenerator(cfg).Generate(context.Background(), testModel())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.NoDirExists(t, root)
	})

	t.Run("missing templates", func(t *testing.T) {
		cfg := testConfig(t, WithTemplateDir(t.TempDir()))
		g := NewGenerator(cfg)
		_, err := g.Generate(context.Background(), testModel())
		assert.True(t, IsConfigError(err))
		assert.Equal(t, StateDone, g.State())
	})
}

func TestGeneratorWorkers(t *testing.T) {
	var model []*schema.Entity
	var want []string
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("Entity%d", i)
		model = append(model, &schema.Entity{
			SQLName:  fmt.Sprintf("entity_%d", i),
			TscName:  name,
			FileName: name,
			Columns: []*schema.Column{
				{Name: "id", TscType: "number", Primary: true, Generated: "increment"},
				{Name: "label", TscType: "string"},
			},
		})
		want = append(want, name+"Module")
	}

	sink := NewArchiveSink()
	res, err := NewGenerator(testConfig(t)).
		WithWorkers(4).
		WithSink(sink).
		Generate(context.Background(), model)
	require.NoError(t, err)
	assert.Equal(t, want, res.ModuleNames())
	assert.Len(t, sink.Archive().Files, len(model)*len(Kinds))
	assert.Equal(t, "entity0/entities/entity0.entity.ts", res.Files[0])
}

func TestGeneratorEditedFiles(t *testing.T) {
	cfg := testConfig(t)
	_, err := NewGenerator(cfg).Generate(context.Background(), testModel())
	require.NoError(t, err)

	edited := filepath.Join(cfg.ResultsPath, "user", "user.service.ts")
	require.NoError(t, os.WriteFile(edited, []byte("// mine\n"), 0o644))

	logger, hook := test.NewNullLogger()
	res, err := NewGenerator(cfg).WithLogger(logger).Generate(context.Background(), testModel())
	require.NoError(t, err)
	assert.Equal(t, []string{"user/user.service.ts"}, res.Edited)
	assert.NotEmpty(t, hook.Entries)

	data, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.NotEqual(t, "// mine\n", string(data))
}

func TestGeneratorWithoutManifest(t *testing.T) {
	cfg := testConfig(t, WithManifest(false))
	_, err := NewGenerator(cfg).Generate(context.Background(), testModel())
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(cfg.ResultsPath, ManifestFile))
}

func TestGeneratorFormatterOverride(t *testing.T) {
	sink := NewArchiveSink()
	calls := 0
	f := FormatterFunc(func(_ context.Context, src []byte) ([]byte, error) {
		calls++
		return src, nil
	})
	_, err := NewGenerator(testConfig(t)).WithSink(sink).WithFormatter(f).Generate(context.Background(), testModel()[:1])
	require.NoError(t, err)
	assert.Equal(t, len(Kinds), calls)
}

func TestGeneratorGraphQLWarning(t *testing.T) {
	model := []*schema.Entity{{
		SQLName:  "query",
		TscName:  "Query",
		FileName: "Query",
		Columns:  []*schema.Column{{Name: "id", TscType: "number", Primary: true}},
	}}
	sink := NewArchiveSink()
	logger, _ := test.NewNullLogger()
	res, err := NewGenerator(testConfig(t, WithGraphQLSchema(true))).
		WithSink(sink).
		WithLogger(logger).
		Generate(context.Background(), model)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.True(t, IsArtifactError(res.Warnings[0]))
	_, ok := sink.File(GraphQLSchemaFile)
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "generating", StateGenerating.String())
	assert.Equal(t, "done", StateDone.String())
}
