//go:build e2e && unix

package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpFlag(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "--help").CombinedOutput()
	require.NoError(t, err)

	output := string(out)
	assert.Contains(t, output, "Usage")
	assert.Contains(t, output, "--backend")
	assert.Contains(t, output, "--demo")
	assert.Contains(t, output, "list")
}

func TestListCommand(t *testing.T) {
	t.Parallel()

	cmd := exec.Command(binPath, "--demo", "list", "objects", "--page", "3", "--page-size", "50")
	cmd.Env = []string{"HOME=" + t.TempDir(), "NO_COLOR=1"}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	output := string(out)
	assert.Contains(t, output, "Objects: page 3 of 3, 125 items")
	assert.Contains(t, output, "224")
}

func TestListCounts(t *testing.T) {
	t.Parallel()

	cmd := exec.Command(binPath, "--demo", "list", "--counts")
	cmd.Env = []string{"HOME=" + t.TempDir(), "NO_COLOR=1"}
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.Contains(t, string(out), "Missiles")
	assert.Contains(t, string(out), "22")
}

func TestListUnknownCategory(t *testing.T) {
	t.Parallel()

	cmd := exec.Command(binPath, "--demo", "list", "weapons")
	cmd.Env = []string{"HOME=" + t.TempDir()}
	out, err := cmd.CombinedOutput()
	require.Error(t, err)
	assert.Contains(t, string(out), `unknown category "weapons"`)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := exec.Command(binPath, "version", "--short").CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "dev")
}
