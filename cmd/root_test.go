package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_TooManyArgs(t *testing.T) {
	_, err := executeRoot(t, "", "a.json", "b.json")
	assert.Error(t, err)
}

func TestRootCmd_MalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output_folder_path": 42}`), 0o644))

	out, err := executeRoot(t, "\n", path)
	require.Error(t, err)
	assert.Contains(t, out, "Loading config file from user-supplied path: '"+path+"'")
	assert.NotContains(t, out, "Your web browser will now open")
}

func TestRootCmd_DefaultConfigWithoutClientSecret(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := executeRoot(t, "\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Loading config file from default path: 'config.json'")
	assert.Contains(t, out, "No config file found. Created default config file at 'config.json'")
	assert.Contains(t, out, "Your web browser will now open")
	assert.Contains(t, out, "An error occurred while generating your token:")

	assert.FileExists(t, filepath.Join(dir, "config.json"))
	assert.DirExists(t, filepath.Join(dir, "switch", "sx"))
	assert.NoFileExists(t, filepath.Join(dir, "switch", "sx", "gdrive.token"))
}

func TestRootCmd_BrowserFlowDeclined(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	secret := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.example.com/auth","token_uri":"http://127.0.0.1:1/token","redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte(secret), 0o600))

	// Simulate the user declining consent in the browser.
	openBrowser = func(rawURL string) error {
		return declineConsent(rawURL)
	}
	t.Cleanup(func() { openBrowser = nil })

	out, err := executeRoot(t, "\n")
	require.NoError(t, err)

	assert.Contains(t, out, "An error occurred while generating your token: authorization was denied")
	assert.NoFileExists(t, filepath.Join(dir, "switch", "sx", "gdrive.token"))
	assert.NoFileExists(t, filepath.Join(dir, "switch", "sx", "credentials.json"))
}

func TestRootCmd_CancelledAtConsentNotice(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	secret := `{"installed":{"client_id":"id","client_secret":"secret","auth_uri":"https://accounts.example.com/auth","token_uri":"http://127.0.0.1:1/token","redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte(secret), 0o600))

	openBrowser = func(string) error {
		t.Error("browser should not open after cancellation")
		return nil
	}
	t.Cleanup(func() { openBrowser = nil })

	// Stdin stays open, as on a terminal where Enter is never pressed.
	stdin, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{})
	cmd.SetIn(stdin)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, out.String(), "Creating output folder")
	assert.NoDirExists(t, filepath.Join(dir, "switch", "sx"))
}
