//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := newDriver(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready(), "should show the category menu")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	t.Logf("Sending 'q' to quit application...")
	tf.Quit()

	select {
	case exitErr := <-done:
		require.NoError(t, exitErr)
		return
	case <-time.After(1500 * time.Millisecond):
		t.Logf("'q' didn't work within 1.5 seconds, using Ctrl+C")
		tf.SendCtrlC()
	}

	select {
	case exitErr := <-done:
		t.Logf("Process exited with Ctrl+C (exit code: %v)", exitErr)
	case <-time.After(750 * time.Millisecond):
		t.Error("Application did not exit within total timeout")
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		tf.SendCtrlC()
	}
}

func TestLastCategoryIsRestored(t *testing.T) {
	t.Parallel()
	tf := newDriver(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())
	tf.OpenCategory(2)
	require.True(t, tf.SeePlain("48 items"))

	done := make(chan error, 1)
	go func() { done <- tf.cmd.Wait() }()
	tf.Quit()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("app did not exit after quit")
	}

	// Same HOME, so the prefs store carries the category over
	workspace := tf.workspace
	tf.Cleanup()
	tf.workspace = workspace
	tf.ClearOutput()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.SeePlain("48 items"), "should reopen Outfits")
}
