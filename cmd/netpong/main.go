// netpong is a terminal client for networked two-player pong.
//
// Usage:
//
//	netpong                  - Open the menu (same as play)
//	netpong play             - Open the menu: create/join a room, practice, leaderboard
//	netpong practice         - Start a practice match against the AI
//	netpong leaderboard      - Print the server leaderboard
//	netpong serve            - Host the client over SSH
//	netpong config           - Print the effective configuration
//
// Global flags:
//
//	--config <path>  - Config file (default search: ~/.netpong/config.yaml, ./configs/netpong.yaml)
//	--server <url>   - Game server WebSocket URL
//	--api <url>      - Leaderboard API base URL
//	--name <name>    - Player name
//	--seed <value>   - RNG seed for practice serves
//	--db <path>      - Leaderboard cache database (default: ~/.netpong/netpong.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/config"
)

var (
	// Global flags
	flagConfig      string
	flagServer      string
	flagAPI         string
	flagName        string
	flagSeed        int64
	flagFPS         int
	flagDBPath      string
	flagLogFile     string
	flagDebug       bool
	flagLowFidelity bool
	flagDifficulty  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netpong",
	Short: "netpong - Two-player pong over the network, in your terminal",
	Long: `netpong connects to a pong game server so two players can face each
other from their terminals. Without an opponent you can practice against
a local AI.

Available commands:
  play         - Menu-driven client (default)
  practice     - Jump straight into a practice match
  leaderboard  - Print the leaderboard
  serve        - Host the client over SSH
  config       - Print the effective configuration

Examples:
  netpong
  netpong --server ws://pong.example.com/ws --name Ann
  netpong practice --difficulty hard
  netpong leaderboard --limit 20
  netpong serve --ssh :2222`,
	RunE:          runPlay,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Game server WebSocket URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "Leaderboard API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagName, "name", "", "Player name (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for practice (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Display frames per second (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.netpong/netpong.db", "Path to leaderboard cache database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.netpong/netpong.log", "Log file for the interactive client")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLowFidelity, "low-fidelity", false, "Plain rendering without colors")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Practice difficulty preset: easy, normal, hard")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig() (config.ClientConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagServer != "" {
		cfg.Server.WSURL = flagServer
	}
	if flagAPI != "" {
		cfg.Server.APIURL = flagAPI
	}
	if flagName != "" {
		cfg.Player.Name = flagName
	}
	if flagFPS > 0 {
		cfg.Display.FPS = flagFPS
	}
	if flagLowFidelity {
		cfg.Display.LowFidelity = true
	}
	if flagDifficulty != "" {
		if err := config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty)); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func mustLoadConfig() config.ClientConfig {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newFileLogger opens the log file for the interactive client, which cannot
// log to a terminal the TUI owns. The returned func closes the file.
func newFileLogger() (*log.Logger, func()) {
	path := expandHome(flagLogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create log directory: %v\n", err)
		return newLogger(nil), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return newLogger(nil), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// newLogger creates the client logger writing to w, or stderr when w is nil.
func newLogger(w *os.File) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "netpong",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger.With("client", uuid.NewString()[:8])
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
