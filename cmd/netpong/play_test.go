package main

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/netpong/internal/platform/tui"
	"github.com/vovakirdan/netpong/internal/storage"
)

func TestStartClientReturnsUIErrorAfterCleanup(t *testing.T) {
	dir := t.TempDir()
	oldRun, oldDB, oldLog, oldServer := runTUI, flagDBPath, flagLogFile, flagServer
	t.Cleanup(func() {
		runTUI, flagDBPath, flagLogFile, flagServer = oldRun, oldDB, oldLog, oldServer
	})
	flagDBPath = filepath.Join(dir, "netpong.db")
	flagLogFile = filepath.Join(dir, "netpong.log")
	flagServer = "ws://127.0.0.1:1/ws"

	errNoTTY := errors.New("no tty")
	var got tui.Deps
	runTUI = func(d tui.Deps, _ ...tea.ProgramOption) error {
		got = d
		return errNoTTY
	}

	err := startClient(true)
	require.ErrorIs(t, err, errNoTTY)
	assert.True(t, got.Practice)

	store, ok := got.Prefs.(*storage.Store)
	require.True(t, ok, "store should be handed to the UI as prefs")
	assert.ErrorIs(t, store.SetPref(storage.PrefSound, "off"), storage.ErrClosed, "cache left open")
}
