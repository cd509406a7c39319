package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netpong/internal/leaderboard"
	"github.com/vovakirdan/netpong/internal/storage"
)

var flagLimit int

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the leaderboard",
	Long: `Fetch the leaderboard from the server and print it. When the server
cannot be reached the last cached copy is shown instead.

Examples:
  netpong leaderboard
  netpong leaderboard --limit 25
  netpong leaderboard --api http://pong.example.com/api`,
	Run: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().IntVar(&flagLimit, "limit", leaderboard.DefaultLimit, "Number of entries to show")
}

func runLeaderboard(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()
	logger := newLogger(nil)

	var cache leaderboard.Cache
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open cache database", "error", err)
	} else {
		defer store.Close()
		cache = store
	}

	svc := leaderboard.NewService(
		leaderboard.NewClient(cfg.Server.APIURL, cfg.Server.HTTPTimeout),
		cache, logger,
	)
	board, err := svc.Load(context.Background(), flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard")
	if board.Offline {
		fmt.Printf("(offline - cached %s, %s)\n", humanize.Time(board.FetchedAt), board.FetchedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	if len(board.Entries) == 0 {
		fmt.Println("No matches recorded yet.")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-18s  %-7s  %6s  %6s  %8s\n", "Rank", "Player", "W-L", "Win %", "Score", "Latency")
	fmt.Printf("  %-4s  %-18s  %-7s  %6s  %6s  %8s\n", "----", "------", "---", "-----", "-----", "-------")

	for i, e := range board.Entries {
		wl := fmt.Sprintf("%d-%d", e.TotalWins, e.Losses())
		fmt.Printf("  %-4d  %-18s  %-7s  %6.1f  %6s  %6.0fms\n",
			i+1, e.PlayerName, wl, e.WinRate, humanize.Comma(int64(e.TotalScore)), e.AvgLatencyMs)
	}
}
