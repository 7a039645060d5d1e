package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("QUIZBOT_TEST_VALUE=from-file\n"), 0o600))
	t.Setenv("QUIZBOT_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("QUIZBOT_TEST_VALUE"))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("QUIZBOT_TEST_VALUE"))

	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestVersionSkipsConfig(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.TrimSpace(out.String()) != "")
}

func TestCommandTree(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "webhook", "commands", "version"} {
		assert.Contains(t, names, want)
	}
}
