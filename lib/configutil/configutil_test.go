package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	User   string `json:"user" validate:"required"`
	Driver string `json:"driver" validate:"oneof=canvas fixture sqlite"`
	Nested struct {
		Dir string `json:"dir"`
	} `json:"nested"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0644)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "dir/gradebook.local.json5", localPath("dir/gradebook.json5"))
	require.Equal(t, "noext.local", localPath("noext"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gradebook.json5"), `{
		// comments are allowed
		user: "annie",
		driver: "canvas",
		nested: {dir: ".charts"},
	}`)
	writeFile(t, filepath.Join(dir, "gradebook.local.json5"), `{driver: "fixture"}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "gradebook.json5"))
	require.NoError(t, err)
	require.Equal(t, "annie", config.User)
	require.Equal(t, "fixture", config.Driver)
	require.Equal(t, ".charts", config.Nested.Dir)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gradebook.local.json5"), `{user: "troy"}`)

	config, err := ReadConfig[testConfig](filepath.Join(dir, "gradebook.json5"))
	require.NoError(t, err)
	require.Equal(t, "troy", config.User)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "gradebook.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "gradebook.json5"), `{user: `)

	_, err := ReadConfig[testConfig](filepath.Join(dir, "gradebook.json5"))
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(testConfig{User: "annie", Driver: "sqlite"}))
	require.Error(t, Validate(testConfig{User: "annie", Driver: "moodle"}))
	require.Error(t, Validate(testConfig{Driver: "canvas"}))
}
