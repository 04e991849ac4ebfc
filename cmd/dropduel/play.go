package main

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/drop-duel/internal/multiplayer"
	"github.com/vovakirdan/drop-duel/internal/platform/tui"
)

var (
	flagServer   string
	flagSession  string
	flagPlayerID string
	flagName     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Join a duel",
	Long: `Connect to a dropduel server and join a session.

Controls:
  Left/Right (h/l)   - Move the cursor
  Down/Space (j)     - Pick the top piece of the column
  Up/Enter (k)       - Throw held pieces onto the column
  ?                  - Toggle help
  Q/Ctrl+C           - Quit

Examples:
  dropduel play
  dropduel play --session friday --name alice
  dropduel play --server https://duel.example.com --session finals`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServer, "server", "http://localhost:8000", "Server address")
	playCmd.Flags().StringVar(&flagSession, "session", tui.DefaultSSHSession, "Session to join")
	playCmd.Flags().StringVar(&flagPlayerID, "player", "", "Player id (random if empty)")
	playCmd.Flags().StringVar(&flagName, "name", "", "Display name (defaults to $USER)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	playerID := flagPlayerID
	if playerID == "" {
		playerID = "p-" + uuid.NewString()[:8]
	}
	name := flagName
	if name == "" {
		name = os.Getenv("USER")
	}
	if name == "" {
		name = multiplayer.DefaultPlayerName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := tui.DialRemote(ctx, flagServer, flagSession, playerID)
	cancel()
	if err != nil {
		return err
	}
	defer client.Close()

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	model := tui.NewDuelModel(client, multiplayer.PlayerID(playerID), name, width, height)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
