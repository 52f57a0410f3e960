package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(`
# comment
NEXTRUN_ENV_A=alpha
NEXTRUN_ENV_B="quoted value"

NEXTRUN_ENV_KEEP=from-file
`), 0644))

	t.Setenv("NEXTRUN_ENV_KEEP", "from-process")
	// registered so the test restores them
	t.Setenv("NEXTRUN_ENV_A", "")
	t.Setenv("NEXTRUN_ENV_B", "")
	require.NoError(t, os.Unsetenv("NEXTRUN_ENV_A"))
	require.NoError(t, os.Unsetenv("NEXTRUN_ENV_B"))

	require.NoError(t, LoadEnv(path))

	assert.Equal(t, "alpha", os.Getenv("NEXTRUN_ENV_A"))
	assert.Equal(t, "quoted value", os.Getenv("NEXTRUN_ENV_B"))
	assert.Equal(t, "from-process", os.Getenv("NEXTRUN_ENV_KEEP"))
}

func TestLoadEnvMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), ".env")
	assert.Error(t, LoadEnv(missing))
	assert.NoError(t, LoadEnvOptional(missing))
}
