package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-regioneval/source"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regioneval.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/papers")

	c := Default()
	assert.Empty(t, c.DSN)
	require.NoError(t, c.Resolve())
	assert.Equal(t, "postgres://localhost/papers", c.DSN)
	assert.Equal(t, source.DefaultSchema, c.Actual.Schema)
	assert.Equal(t, source.DefaultSchema, c.Expected.Schema)
	assert.Nil(t, c.MinimumIoU)
}

func TestResolveKeepsFixtures(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/papers")

	c := Default()
	c.Fixtures = "testdata/fixtures.yaml"
	require.NoError(t, c.Resolve())
	assert.Empty(t, c.DSN, "fixtures take the place of the database")
}

func TestResolveNoStore(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	assert.Error(t, Default().Resolve())
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REGIONEVAL_TEST_PASSWORD", "hunter2")

	path := writeConfig(t, `
dsn: postgres://eval:${REGIONEVAL_TEST_PASSWORD}@db/papers
minimum_iou: 0.5
workers: 4
paper_timeout: 30s
entity_types: [symbol, equation]
expected:
  schema: gold
  version: 2
papers:
  ids: ["1601.00978"]
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://eval:hunter2@db/papers", c.DSN)
	require.NotNil(t, c.MinimumIoU)
	assert.InDelta(t, 0.5, *c.MinimumIoU, 1e-9)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 30*time.Second, c.PaperTimeout)
	assert.Equal(t, []string{"symbol", "equation"}, c.EntityTypes)
	assert.Equal(t, source.DefaultSchema, c.Actual.Schema, "unset side keeps its default")
	assert.Nil(t, c.Actual.Version)
	assert.Equal(t, "gold", c.Expected.Schema)
	require.NotNil(t, c.Expected.Version)
	assert.Equal(t, 2, *c.Expected.Version)
	assert.Equal(t, []string{"1601.00978"}, c.Papers.IDs)

	require.NoError(t, c.Resolve())
	assert.Len(t, c.Options(nil), 5)
}

func TestLoadUnknownField(t *testing.T) {
	path := writeConfig(t, "minimum_iuo: 0.5\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum_iuo")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "dsn", config: Config{DSN: "postgres://db"}},
		{name: "fixtures", config: Config{Fixtures: "testdata/fixtures.yaml"}},
		{name: "no store", config: Config{}, wantErr: true},
		{name: "both stores", config: Config{DSN: "postgres://db", Fixtures: "f.yaml"}, wantErr: true},
		{name: "negative workers", config: Config{DSN: "postgres://db", Workers: -1}, wantErr: true},
		{name: "negative timeout", config: Config{DSN: "postgres://db", PaperTimeout: -time.Second}, wantErr: true},
		{name: "unknown type", config: Config{DSN: "postgres://db", EntityTypes: []string{"figure"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
