package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
}

func TestFindClientSecret(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"only wildcard match", []string{"b2.json"}, "b2.json"},
		{"first pattern wins", []string{"a.json", "b2.json"}, "a.json"},
		{"first listed match within pattern", []string{"b3.json", "b1.json"}, "b1.json"},
		{"unrelated files ignored", []string{"c.json", "b.txt", "b9.json"}, "b9.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				touch(t, filepath.Join(dir, f))
			}

			patterns := []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b*.json")}
			got, err := FindClientSecret(patterns)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.want), got)
		})
	}
}

func TestFindClientSecret_NotFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "other.json"))

	_, err := FindClientSecret([]string{
		filepath.Join(dir, "a.json"),
		filepath.Join(dir, "b*.json"),
		filepath.Join(dir, "missing-dir", "*.json"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClientSecretNotFound))
}

func TestFindClientSecret_Empty(t *testing.T) {
	_, err := FindClientSecret(nil)
	assert.True(t, errors.Is(err, ErrClientSecretNotFound))
}

func TestFindClientSecret_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "client_secret_dir.json"), 0o755))
	touch(t, filepath.Join(dir, "client_secret_real.json"))

	got, err := FindClientSecret([]string{filepath.Join(dir, "client_secret*.json")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "client_secret_real.json"), got)
}

func TestFindClientSecret_DirectoryIsLiteral(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "keys"), 0o755))
	touch(t, filepath.Join(dir, "keys", "secret.json"))

	_, err := FindClientSecret([]string{filepath.Join(dir, "k*", "secret.json")})
	assert.True(t, errors.Is(err, ErrClientSecretNotFound))
}

func TestFindClientSecret_BadPattern(t *testing.T) {
	_, err := FindClientSecret([]string{filepath.Join(t.TempDir(), "[.json")})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrClientSecretNotFound))
}

func TestFindClientSecret_RelativePattern(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	touch(t, "client_secret_123.json")

	got, err := FindClientSecret(DefaultClientSecretPaths)
	require.NoError(t, err)
	assert.Equal(t, "client_secret_123.json", got)
}
