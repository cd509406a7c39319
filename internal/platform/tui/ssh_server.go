package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/netpong/internal/config"
	"github.com/vovakirdan/netpong/internal/core"
	"github.com/vovakirdan/netpong/internal/cues"
	"github.com/vovakirdan/netpong/internal/leaderboard"
	"github.com/vovakirdan/netpong/internal/netclient"
	"github.com/vovakirdan/netpong/internal/storage"
)

// SSHServerConfig configures the serve command.
type SSHServerConfig struct {
	Address     string        // listen address, e.g. ":23234"
	HostKeyPath string        // empty means ~/.netpong/host_key
	DBPath      string        // shared leaderboard cache
	IdleTimeout time.Duration // idle sessions are dropped after this

	Client config.ClientConfig // settings for every hosted client
}

// DefaultSSHServerConfig listens on :23234 with the default client config.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.netpong/netpong.db",
		IdleTimeout: 30 * time.Minute,
		Client:      config.DefaultConfig(),
	}
}

// SSHServer hosts one netpong client per SSH session. Each session gets its
// own connection to the game server.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	boards *leaderboard.Service
	logger *log.Logger
}

// NewSSHServer prepares the server. A missing cache database is logged and
// the leaderboard then works online only.
func NewSSHServer(cfg SSHServerConfig, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "netpong-ssh",
		})
	}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, logger: logger}

	var cache leaderboard.Cache
	if store, err := storage.Open(cfg.DBPath); err != nil {
		logger.Warn("leaderboard cache disabled", "error", err)
	} else {
		srv.store = store
		cache = store
	}
	srv.boards = leaderboard.NewService(
		leaderboard.NewClient(cfg.Client.Server.APIURL, cfg.Client.Server.HTTPTimeout),
		cache, logger,
	)

	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("ssh server: %w", err)
	}
	return srv, nil
}

// hostKeyPath defaults to ~/.netpong/host_key and makes sure the directory
// exists; wish generates the key on first start.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ssh server: home directory: %w", err)
		}
		path = filepath.Join(home, ".netpong", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("ssh server: host key directory: %w", err)
	}
	return path, nil
}

// teaHandler builds a client for one session. The session's link and sink
// live as long as its context.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	id := uuid.NewString()
	logger := s.logger.With("session", id[:8], "user", sshSession.User())

	cfg := s.config.Client
	if cfg.Player.Name == "" || cfg.Player.Name == config.DefaultConfig().Player.Name {
		cfg.Player.Name = sshSession.User()
	}

	sink := netclient.NewSink(256)
	conn := netclient.New(netclient.Options{
		URL:            cfg.Server.WSURL,
		ReconnectDelay: cfg.Server.ReconnectDelay,
		Logger:         logger,
	})
	conn.OnEvent(sink.Send)
	ctx := sshSession.Context()
	conn.Connect(ctx)
	go func() {
		<-ctx.Done()
		conn.Close()
		sink.Close()
	}()

	model := NewModel(Deps{
		Config:  cfg,
		Link:    conn,
		Sink:    sink,
		Audio:   cues.NewSwitch(cues.NewBell(sshSession), true),
		Boards:  s.boards,
		Logger:  logger,
		Quality: core.RenderQuality{LowFidelity: cfg.Display.LowFidelity},
		Width:   pty.Window.Width,
		Height:  pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session start and end.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		began := time.Now()
		logger := s.logger.With("user", sshSession.User(), "remote", sshSession.RemoteAddr().String())
		logger.Info("session started")
		next(sshSession)
		logger.Info("session ended", "duration", time.Since(began).Round(time.Second))
	}
}

// ListenAndServe serves until ctx is done or the process receives SIGINT or
// SIGTERM, then shuts down gracefully.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "game_server", s.config.Client.Server.WSURL)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.closeStore()
			return fmt.Errorf("ssh server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server and closes the cache.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}
