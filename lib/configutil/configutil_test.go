package configutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name     string   `json:"name" env:"TEST_CONFIG_NAME" env-default:"edbo"`
	Database string   `json:"database" env:"TEST_CONFIG_DATABASE"`
	Codes    []string `json:"codes" env:"TEST_CONFIG_CODES" env-separator:","`
	Verbose  bool     `json:"verbose"`
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestReadConfigMergesLocalOverride(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "edbo.json5"), `{
		// comments are fine in json5
		name: "base",
		database: "sqlite://base.db",
		codes: ["F3"],
	}`)
	write(t, filepath.Join(dir, "edbo.local.json5"), `{database: "sqlite://local.db", verbose: true}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "edbo.json5"))
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Name:     "base",
		Database: "sqlite://local.db",
		Codes:    []string{"F3"},
		Verbose:  true,
	}, cfg)

	_, err = ReadConfig[testConfig](filepath.Join(dir, "missing.json5"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadRecursivelyWalksUp(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "edbo.json5"), `{name: "root"}`)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := ReadRecursively[testConfig]("edbo.json5")
	require.NoError(t, err)
	require.Equal(t, "root", cfg.Name)
}

func TestLoadLayersEnvironment(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		dotenv   string
		env      map[string]string
		expected testConfig
	}{
		{
			name:     "defaults only",
			expected: testConfig{Name: "edbo"},
		},
		{
			name:     "file keeps its values over defaults",
			file:     `{name: "from-file", database: "sqlite://file.db"}`,
			expected: testConfig{Name: "from-file", Database: "sqlite://file.db"},
		},
		{
			name:     "dotenv fills unset variables",
			file:     `{database: "sqlite://file.db"}`,
			dotenv:   "TEST_CONFIG_DATABASE=postgres://localhost/edbo\nTEST_CONFIG_CODES=F3,A1\n",
			expected: testConfig{Name: "edbo", Database: "postgres://localhost/edbo", Codes: []string{"F3", "A1"}},
		},
		{
			name:     "process environment wins over dotenv",
			dotenv:   "TEST_CONFIG_NAME=dotenv\n",
			env:      map[string]string{"TEST_CONFIG_NAME": "process"},
			expected: testConfig{Name: "process"},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			for _, key := range []string{"TEST_CONFIG_NAME", "TEST_CONFIG_DATABASE", "TEST_CONFIG_CODES"} {
				value, ok := test.env[key]
				t.Setenv(key, value)
				if !ok {
					os.Unsetenv(key)
				}
			}
			if test.file != "" {
				write(t, filepath.Join(dir, "edbo.json5"), test.file)
			}
			if test.dotenv != "" {
				write(t, filepath.Join(dir, ".env"), test.dotenv)
			}

			cfg, err := Load[testConfig]("edbo.json5")
			require.NoError(t, err)
			require.Equal(t, test.expected, cfg)
		})
	}
}
