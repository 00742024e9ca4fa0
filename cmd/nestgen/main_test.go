package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/syssam/nestgen/compiler/gen"
)

func init() {
	color.NoColor = true
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nestgen version dev\n", stdout)
}

func TestGenerate(t *testing.T) {
	out := t.TempDir()
	stdout, _, err := execute(t, "generate", "-m", filepath.Join("testdata", "blog.yaml"), "-o", out, "--eol", "LF")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Generated 2 modules")
	assert.Contains(t, stdout, "UserModule\t./user/user.module")
	assert.Contains(t, stdout, "PostModule\t./post/post.module")
	for _, kind := range gen.Kinds {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(gen.ArtifactPath(kind, "user"))))
	}
	assert.FileExists(t, filepath.Join(out, gen.ManifestFile))
}

func TestGenerateFlags(t *testing.T) {
	out := t.TempDir()
	_, _, err := execute(t, "gen", "-m", filepath.Join("testdata", "blog.yaml"), "-o", out,
		"--case-file", "pascal", "--no-manifest", "--graphql-schema")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, filepath.FromSlash(gen.ArtifactPath(gen.KindEntity, "User"))))
	assert.NoFileExists(t, filepath.Join(out, gen.ManifestFile))
	assert.FileExists(t, filepath.Join(out, gen.GraphQLSchemaFile))
}

func TestGenerateDryRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	stdout, stderr, err := execute(t, "generate", "-m", filepath.Join("testdata", "blog.yaml"), "-o", out, "--dry-run")
	require.NoError(t, err)

	a := txtar.Parse([]byte(stdout))
	names := make([]string, 0, len(a.Files))
	for _, f := range a.Files {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, gen.ArtifactPath(gen.KindEntity, "user"))
	assert.Contains(t, names, gen.ArtifactPath(gen.KindModule, "post"))
	assert.Len(t, names, 2*len(gen.Kinds))
	assert.Contains(t, stderr, "Generated 2 modules")
	assert.NoDirExists(t, out, "dry run touches nothing")
}

func TestGenerateConfigFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "src")
	model, err := filepath.Abs(filepath.Join("testdata", "blog.yaml"))
	require.NoError(t, err)
	cfgFile := filepath.Join(dir, "nestgen.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("model: "+model+"\noutput: "+out+"\ncase_file: camel\n"), 0o644))

	stdout, _, err := execute(t, "--config", cfgFile, "generate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 2 modules")
	assert.FileExists(t, filepath.Join(out, filepath.FromSlash(gen.ArtifactPath(gen.KindEntity, "user"))))

	// Flags win over the file.
	other := filepath.Join(dir, "other")
	_, _, err = execute(t, "--config", cfgFile, "generate", "-o", other)
	require.NoError(t, err)
	assert.DirExists(t, other)
}

func TestGenerateFailOnWarnings(t *testing.T) {
	tmpl := t.TempDir()
	for _, kind := range gen.Kinds {
		src := "export {};\n"
		if kind == gen.KindService {
			src = "export class Broken {\n"
		}
		require.NoError(t, os.WriteFile(filepath.Join(tmpl, string(kind)+".tmpl"), []byte(src), 0o644))
	}
	args := []string{"generate", "-m", filepath.Join("testdata", "blog.yaml"), "--templates", tmpl}

	stdout, _, err := execute(t, append(args, "-o", t.TempDir())...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "format of service failed for table user")

	_, _, err = execute(t, append(args, "-o", t.TempDir(), "--fail-on-warnings")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, gen.ErrArtifact)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("no model", func(t *testing.T) {
		_, _, err := execute(t, "generate", "-o", t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no model")
	})

	t.Run("missing model", func(t *testing.T) {
		_, _, err := execute(t, "generate", "-m", filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load model")
	})

	t.Run("invalid setting", func(t *testing.T) {
		_, _, err := execute(t, "generate", "-m", filepath.Join("testdata", "blog.yaml"), "--case-file", "snake")
		require.Error(t, err)
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("invalid log level", func(t *testing.T) {
		t.Setenv("NESTGEN_LOG_LEVEL", "loud")
		_, _, err := execute(t, "version")
		require.Error(t, err)
	})

	t.Run("unknown argument", func(t *testing.T) {
		_, _, err := execute(t, "generate", "extra")
		require.Error(t, err)
	})
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(file, []byte("entities: []\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, []string{file}, 10*time.Millisecond, func(context.Context) error {
			runs.Add(1)
			return nil
		}, func(error) {})
	}()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("entities: []\n# changed\n"), 0o644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchMissingDir(t *testing.T) {
	err := watch(context.Background(), []string{filepath.Join(t.TempDir(), "gone", "model.yaml")}, time.Millisecond,
		func(context.Context) error { return nil }, func(error) {})
	assert.Error(t, err)
}
