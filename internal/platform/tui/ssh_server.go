package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/drop-duel/internal/config"
	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

// DefaultSSHSession is the session joined when no command is given.
const DefaultSSHSession = "lobby"

// SSHServer hosts duels over SSH using Wish. Every SSH session plays through
// the same coordinator as websocket players.
type SSHServer struct {
	config config.SSHConfig
	coord  *multiplayer.Coordinator
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates an SSH server with the given configuration.
func NewSSHServer(cfg config.SSHConfig, coord *multiplayer.Coordinator, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "dropduel-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		coord:  coord,
		logger: logger,
	}

	hostKeyPath, err := expandHome(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	// Ensure host key directory exists
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// sshSessionID picks the duel session from the SSH command,
// e.g. `ssh -p 23234 host my-room`.
func sshSessionID(cmd []string) multiplayer.SessionID {
	if len(cmd) == 0 || strings.TrimSpace(cmd[0]) == "" {
		return DefaultSSHSession
	}
	return multiplayer.SessionID(strings.TrimSpace(cmd[0]))
}

// sshPlayerID makes a player id that is unique per SSH session, so the same
// user can hold both seats from two terminals.
func sshPlayerID(user string) multiplayer.PlayerID {
	if user == "" {
		user = "guest"
	}
	return multiplayer.PlayerID(user + "-" + uuid.NewString()[:8])
}

// teaHandler creates a duel model for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	sessionID := sshSessionID(sshSession.Command())
	playerID := sshPlayerID(sshSession.User())
	client := NewLocalClient(s.coord, sessionID, playerID)

	// Leave the session when the SSH connection goes away.
	go func() {
		<-sshSession.Context().Done()
		//nolint:errcheck // Close is idempotent and never fails
		client.Close()
	}()

	s.logger.Debug("duel client attached", "session", sessionID, "player", playerID)

	model := NewDuelModel(client, playerID, sshSession.User(), pty.Window.Width, pty.Window.Height)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
