package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the netpong client over SSH",
	Long: `Start an SSH server so remote terminals can play without installing
netpong. Each SSH session runs its own client with its own connection to
the game server; the SSH user name becomes the default player name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.netpong/host_key

Examples:
  netpong serve                           # Listen on :23234 with auto-generated key
  netpong serve --ssh :2222               # Listen on port 2222
  netpong serve --server ws://pong.example.com/ws

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	client := mustLoadConfig()

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Client:      client,
	}

	server, err := tui.NewSSHServer(cfg, newLogger(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting netpong SSH server on %s\n", cfg.Address)
	fmt.Printf("Game server: %s\n", client.Server.WSURL)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
