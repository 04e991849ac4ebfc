package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/drop-duel/internal/multiplayer"
	"github.com/vovakirdan/drop-duel/internal/platform/tui"
	"github.com/vovakirdan/drop-duel/internal/platform/web"
	"github.com/vovakirdan/drop-duel/internal/storage"
)

var (
	flagAddr    string
	flagSSHAddr string
	flagDBPath  string
	flagNoDB    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the duel server",
	Long: `Start the websocket gateway that hosts duel sessions.

Clients connect to ws://<addr>/ws/<session>/<player>. The first two players
who join a session play each other. Finished matches are stored in the
match history database unless --no-db is given.

With --ssh (or ssh.address in the config) an SSH server is started too.
SSH players share sessions with websocket players:
  ssh localhost -p 23234 <session>

Examples:
  dropduel serve
  dropduel serve --addr :9000
  dropduel serve --ssh :23234
  dropduel serve --db ./matches.db`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (overrides config)")
	serveCmd.Flags().StringVar(&flagDBPath, "db", "", "Match history database (overrides config)")
	serveCmd.Flags().BoolVar(&flagNoDB, "no-db", false, "Do not record match history")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagAddr != "" {
		cfg.Server.Address = flagAddr
	}
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagNoDB {
		cfg.Storage.Path = ""
	}

	logger := newLogger(cfg)

	registry := multiplayer.NewRegistry(cfg.Game.Rules(), cfg.Game.Seed)
	coord := multiplayer.NewCoordinator(registry, multiplayer.NewHub(), logger)

	var history web.MatchHistory
	if cfg.Storage.Path != "" {
		store, openErr := storage.Open(cfg.Storage.Path)
		if openErr != nil {
			// Continue without storage
			logger.Warn("could not open match database", "path", cfg.Storage.Path, "error", openErr)
		} else {
			defer store.Close()
			coord.SetResultSaver(store)
			history = store
			logger.Info("recording matches", "path", cfg.Storage.Path)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 1

	if cfg.SSH.Address != "" {
		sshServer, sshErr := tui.NewSSHServer(cfg.SSH, coord, logger.WithPrefix("dropduel-ssh"))
		if sshErr != nil {
			return sshErr
		}
		running++
		go func() { errCh <- sshServer.ListenAndServe(ctx) }()
	}

	server := web.New(cfg.Server, coord, history, logger.WithPrefix("dropduel-http"))
	go func() { errCh <- server.ListenAndServe(ctx) }()

	var firstErr error
	for range running {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	if firstErr != nil {
		return firstErr
	}
	logger.Info("server stopped")
	return nil
}
