package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/drop-duel/internal/platform/tui"
	"github.com/vovakirdan/drop-duel/internal/storage"
)

var (
	flagHistoryDB string
	flagPlain     bool
	flagLimit     int
	flagPlayer    string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded matches",
	Long: `Show matches recorded by a dropduel server.

By default an interactive browser opens with recent matches and top scores.
Use --plain to print recent matches instead, or --player to print one
player's record.

Examples:
  dropduel history
  dropduel history --plain --limit 20
  dropduel history --player alice`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&flagHistoryDB, "db", "", "Match history database (overrides config)")
	historyCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print instead of opening the browser")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Rows to print with --plain")
	historyCmd.Flags().StringVar(&flagPlayer, "player", "", "Print stats for one player")
}

func runHistory(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Storage.Path
	if flagHistoryDB != "" {
		path = flagHistoryDB
	}
	if path == "" {
		return errors.New("match history is disabled (storage.path is empty)")
	}

	store, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("opening match database: %w", err)
	}
	defer store.Close()

	switch {
	case flagPlayer != "":
		return printPlayer(store, flagPlayer)
	case flagPlain:
		return printRecent(store, flagLimit)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	return tui.RunHistory(store, width, height)
}

func printRecent(store *storage.Store, limit int) error {
	matches, err := store.RecentMatches(limit)
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	fmt.Println("Recent Matches")
	fmt.Println()
	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-14s  %6s  %-14s  %6s  %-14s\n", "Date", "Player 1", "Score", "Player 2", "Score", "Winner")
	fmt.Printf("  %-16s  %-14s  %6s  %-14s  %6s  %-14s\n", "----", "--------", "-----", "--------", "-----", "------")
	for _, m := range matches {
		winner := m.WinnerName()
		if winner == "" {
			winner = "-"
		}
		fmt.Printf("  %-16s  %-14s  %6d  %-14s  %6d  %-14s\n",
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.Player1Name, m.Player1Score,
			m.Player2Name, m.Player2Score,
			winner)
	}
	return nil
}

func printPlayer(store *storage.Store, name string) error {
	stats, err := store.StatsForPlayer(name)
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	fmt.Printf("Player - %s\n", stats.Name)
	fmt.Println()
	if stats.Matches == 0 {
		fmt.Println("No matches recorded yet.")
		return nil
	}
	fmt.Printf("  Matches:    %d\n", stats.Matches)
	fmt.Printf("  Wins:       %d\n", stats.Wins)
	fmt.Printf("  Best score: %d\n", stats.HighScore)
	return nil
}
