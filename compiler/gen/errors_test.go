package gen

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("CaseFile", "kebab", "unknown case style")

		assert.Contains(t, err.Error(), "nestgen: config error")
		assert.Contains(t, err.Error(), "CaseFile")
		assert.Contains(t, err.Error(), "kebab")
		assert.Contains(t, err.Error(), "unknown case style")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("ResultsPath", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "ResultsPath")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("EOL", "CR", "unknown")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("IsConfigError helper", func(t *testing.T) {
		assert.True(t, IsConfigError(errors.Join(errors.New("x"), NewConfigError("EOL", nil, "missing"))))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := &fs.PathError{Op: "mkdir", Path: "/out/user", Err: fs.ErrPermission}
		err := NewGenerationError("mkdir", "/out/user", "create directory", cause)

		assert.Contains(t, err.Error(), "phase mkdir")
		assert.Contains(t, err.Error(), "(file: /out/user)")
		assert.Contains(t, err.Error(), "create directory")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("Unwrap reaches the path error", func(t *testing.T) {
		cause := &fs.PathError{Op: "open", Path: "x", Err: fs.ErrPermission}
		err := NewGenerationError("write", "x", "", cause)

		var pathErr *fs.PathError
		require.True(t, errors.As(err, &pathErr))
		assert.Equal(t, "x", pathErr.Path)
		assert.True(t, errors.Is(err, fs.ErrPermission))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
	})
}

func TestArtifactError(t *testing.T) {
	cause := errors.New("unexpected '}'")
	err := &ArtifactError{Table: "user", Artifact: KindEntity, Phase: "format", Cause: cause}

	assert.Equal(t, "nestgen: format of entity failed for table user: unexpected '}'", err.Error())
	assert.True(t, errors.Is(err, ErrArtifact))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsArtifactError(err))
	assert.False(t, IsArtifactError(cause))
}
