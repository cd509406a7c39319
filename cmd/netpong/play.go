package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/leaderboard"
	"github.com/vovakirdan/netpong/internal/netclient"
	"github.com/vovakirdan/netpong/internal/platform/tui"
	"github.com/vovakirdan/netpong/internal/storage"
)

// runTUI is replaced in tests, which have no terminal.
var runTUI = tui.Run

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the client menu",
	Long: `Open the netpong menu. From there you can create a room and share its
code, join a friend's room, practice against the AI, or browse the
leaderboard.

Controls:
  W/S, Up/Down     - Move paddle (hold)
  Mouse [▲]/[▼]    - On-screen buttons
  Left drag        - Paddle follows the pointer
  Right drag       - Swipe; faster swipes move faster
  M                - Toggle sound
  Esc              - Leave match / back
  R                - Rematch (after game over)
  Q/Ctrl+C         - Quit

Examples:
  netpong play
  netpong play --name Ann --server ws://pong.example.com/ws`,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	return startClient(false)
}

// startClient wires the connection, caches and UI, and runs until the
// player quits. Errors are returned so the deferred closes still run.
func startClient(practice bool) error {
	cfg := mustLoadConfig()

	logger, closeLog := newFileLogger()
	defer closeLog()

	// Open leaderboard cache and preferences
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open cache database", "error", err)
		// Continue without storage - the client still works
	}

	sound := true
	var prefs tui.Prefs
	var cache leaderboard.Cache
	if store != nil {
		defer store.Close()
		prefs = store
		cache = store
		if flagName == "" {
			if name, perr := store.Pref(storage.PrefPlayerName, cfg.Player.Name); perr == nil {
				cfg.Player.Name = name
			}
		}
		if v, perr := store.Pref(storage.PrefSound, "on"); perr == nil {
			sound = v != "off"
		}
	}

	// Get terminal size early for the first frame
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := netclient.NewSink(256)
	conn := netclient.New(netclient.Options{
		URL:            cfg.Server.WSURL,
		ReconnectDelay: cfg.Server.ReconnectDelay,
		Logger:         logger,
	})
	conn.OnEvent(sink.Send)
	logger.Info("connecting", "url", cfg.Server.WSURL)
	conn.Connect(ctx)

	boards := leaderboard.NewService(
		leaderboard.NewClient(cfg.Server.APIURL, cfg.Server.HTTPTimeout),
		cache, logger,
	)

	err = runTUI(tui.Deps{
		Config:   cfg,
		Link:     conn,
		Sink:     sink,
		Audio:    cues.NewSwitch(cues.NewBell(os.Stderr), sound),
		Boards:   boards,
		Prefs:    prefs,
		Logger:   logger,
		Quality:  core.RenderQuality{LowFidelity: cfg.Display.LowFidelity},
		Seed:     flagSeed,
		Width:    width,
		Height:   height,
		Practice: practice,
	})
	if err != nil {
		return fmt.Errorf("client: %w", err)
	}
	return nil
}
