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

func TestRootCommand_ServesStdio(t *testing.T) {
	t.Setenv("APP_CONFIG", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  dir: "+filepath.Join(dir, "logs")+"\n"), 0o644))

	a := &app{}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader("{\"action\":\"list_tools\"}\n\n{\"action\":\"what\"}\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath})

	require.NoError(t, cmd.Execute())
	a.teardown()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"tools":["fetch_url","extract_main_text","extract_evidence_quotes","save_sources","save_report"]`)
	assert.JSONEq(t, `{"ok":false,"error":"unknown action"}`, lines[1])

	_, err := os.Stat(filepath.Join(dir, "logs", "app.log"))
	assert.NoError(t, err)
}

func TestRootCommand_MalformedConfig(t *testing.T) {
	t.Setenv("APP_CONFIG", "")
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("http: [oops"), 0o644))

	cmd := newRootCmd(&app{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath})
	assert.Error(t, cmd.Execute())
}
