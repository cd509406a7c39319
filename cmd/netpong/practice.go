package main

import (
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a practice match against the AI",
	Long: `Skip the menu and play a local match against the AI opponent. The
server connection is still opened in the background so you can go online
from the menu afterwards.

Difficulty options:
  easy   - AI moves at half paddle speed
  normal - AI moves at 70% paddle speed
  hard   - AI moves at 90% paddle speed

Examples:
  netpong practice
  netpong practice --difficulty hard --seed 42`,
	RunE: runPractice,
}

func runPractice(_ *cobra.Command, _ []string) error {
	return startClient(true)
}
