package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake-arena/internal/config"
	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/multiplayer"
	"github.com/vovakirdan/snake-arena/internal/platform/tui"
	"github.com/vovakirdan/snake-arena/internal/platform/web"
)

const shutdownTimeout = 10 * time.Second

var (
	flagPort      int
	flagStaticDir string
	flagSSHAddr   string
	flagHostKey   string
	flagDashboard bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arena server",
	Long: `Start the websocket game server.

Browsers connect to /ws (add ?codec=msgpack for binary frames), /healthz
reports the arena state and --static serves a client from /.

With --ssh, spectators can watch the arena from a terminal:
  ssh localhost -p 23234

With --dashboard the same spectator view runs in this terminal.
Quitting the dashboard stops the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arena/host_key

Examples:
  arena serve                          # Listen on :3000 (or $PORT)
  arena serve --port 8080 --static ./public
  arena serve --ssh :23234             # Also start the SSH spectator console
  arena serve --dashboard              # Watch locally`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (overrides config and $PORT)")
	serveCmd.Flags().StringVar(&flagStaticDir, "static", "", "Directory of client files served at /")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH spectator address (host:port), empty disables")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().BoolVar(&flagDashboard, "dashboard", false, "Show the spectator view in this terminal")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyServeFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// applyServeFlags overrides configuration with the flags that were set.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Server.Port = flagPort
	}
	if flags.Changed("static") {
		cfg.Server.StaticDir = flagStaticDir
	}
	if flags.Changed("ssh") {
		cfg.Spectator.SSHAddr = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.Spectator.HostKeyPath = flagHostKey
	}
}

// serve runs the arena until ctx is cancelled, a listener fails or the dashboard exits.
func serve(ctx context.Context, cfg config.Config, logger *log.Logger) error {
	dashW, dashH, dashboard := dashboardSize()
	if flagDashboard && !dashboard {
		logger.Warn("stdout is not a terminal, dashboard disabled")
	}
	if dashboard {
		// The dashboard owns the terminal
		logger.SetOutput(io.Discard)
	}

	world := snake.NewWorld(snake.SettingsFromConfig(cfg), core.NewRandomSource(cfg.Simulation.Seed))
	round := snake.NewRound(cfg.Round.CountdownSecs, cfg.Round.DurationSecs)

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	coordCfg.TickRate = cfg.Simulation.TickRate
	coordCfg.MsgBuffer = max(coordCfg.MsgBuffer, cfg.Simulation.Capacity*16)
	coordCfg.Logger = logger.WithPrefix("coordinator")
	coord := multiplayer.NewCoordinator(coordCfg, world, round, multiplayer.NewSessionRegistry())

	coordCtx, cancelCoord := context.WithCancel(context.Background())
	defer func() {
		cancelCoord()
		<-coord.Done()
	}()
	go coord.Run(coordCtx)

	webServer := web.NewServer(web.ConfigFromServer(cfg.Server), coord, logger.WithPrefix("web"))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           webServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 3)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http: %w", err)
		}
	}()
	logger.Info("arena listening",
		"port", cfg.Server.Port,
		"client_url", cfg.Server.ClientURL,
		"capacity", cfg.Simulation.Capacity,
		"tick_rate", cfg.Simulation.TickRate,
	)

	arena := tui.ArenaSize{Width: cfg.Arena.Width, Height: cfg.Arena.Height}

	var sshServer *tui.SSHServer
	if cfg.Spectator.SSHAddr != "" {
		var err error
		sshServer, err = tui.NewSSHServer(tui.SSHServerConfigFrom(cfg), coord, logger.WithPrefix("ssh"))
		if err != nil {
			shutdownHTTP(httpServer, logger)
			return err
		}
		logger.Info("spectators can connect over ssh", "address", sshServer.Addr())
		go func() {
			if err := sshServer.ListenAndServe(); err != nil {
				errc <- fmt.Errorf("ssh: %w", err)
			}
		}()
	}

	if dashboard {
		go func() {
			if err := tui.RunDashboard(ctx, coord, arena, dashW, dashH); err != nil {
				errc <- fmt.Errorf("dashboard: %w", err)
				return
			}
			errc <- nil
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case runErr = <-errc:
	}

	shutdownHTTP(httpServer, logger)
	if sshServer != nil {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := sshServer.Shutdown(sctx); err != nil {
			logger.Warn("ssh shutdown", "error", err)
		}
		cancel()
	}
	return runErr
}

func shutdownHTTP(srv *http.Server, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
}

// dashboardSize reports the terminal size when --dashboard is set and stdout is a TTY.
func dashboardSize() (int, int, bool) {
	if !flagDashboard {
		return 0, 0, false
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}
	w, h, err := term.GetSize(fd)
	if err != nil {
		return 80, 24, true
	}
	return w, h, true
}
