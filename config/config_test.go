package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) {
	t.Helper()

	yaml := `APP:
  NAME: concord-test
  PORT: ":8080"
DATABASE:
  POSTGRES:
    URL: postgres://localhost/concord_test
  REDIS:
    ADDR: localhost:6379
`

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "application.yaml"), []byte(yaml), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	writeTestConfig(t)

	require.NoError(t, LoadConfig())

	assert.Equal(t, "postgres://localhost/concord_test", Conf.DATABASE.Postgres.DSN)
	assert.True(t, Conf.DATABASE.Postgres.AutoMigrate, "schema migration runs unless disabled")
	assert.Equal(t, 10, Conf.CHAT.PageSize)
	assert.Equal(t, "/socket/io", Conf.SOCKET.Path)
}

func TestLoadConfig_EnvDisablesAutoMigrate(t *testing.T) {
	writeTestConfig(t)
	t.Setenv("CONCORD_DATABASE_POSTGRES_AUTO_MIGRATE", "false")

	require.NoError(t, LoadConfig())

	assert.False(t, Conf.DATABASE.Postgres.AutoMigrate)
}
