//go:build !lambda

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const request = `{"template":"verification-code","subject":"Code","preview":"Your code","code":"9876"}`

func TestRenderCmd_StdinToStdout(t *testing.T) {
	out, err := run(t, request, "render")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "9876")
}

func TestRenderCmd_FileToFileAsJSON(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "req.json")
	outPath := filepath.Join(dir, "resp.json")
	require.NoError(t, os.WriteFile(in, []byte(request), 0o600))

	_, err := run(t, "", "render", "-f", in, "-o", outPath, "--json")
	require.NoError(t, err)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(b, &resp))
	assert.Equal(t, "Code", resp["subject"])
	assert.Equal(t, "verification-code", resp["template"])
}

func TestRenderCmd_ValidationError(t *testing.T) {
	_, err := run(t, `{"template":"verification-code","subject":"s","preview":"p","code":"12"}`, "render")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code must be 4 characters")
}

func TestRenderCmd_TemplateOverride(t *testing.T) {
	_, err := run(t, request, "render", "-t", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown template: bogus")
}

func TestTemplatesCmd(t *testing.T) {
	out, err := run(t, "", "templates")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "multi-block"))
	assert.True(t, strings.HasPrefix(lines[1], "verification-code"))

	out, err = run(t, "", "templates", "verification-code")
	require.NoError(t, err)
	assert.Contains(t, out, `"code": "1234"`)

	_, err = run(t, "", "templates", "nope")
	assert.Error(t, err)
}
