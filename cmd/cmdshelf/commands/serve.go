package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cmdshelf/cmdshelf/internal/clipboard"
	"github.com/cmdshelf/cmdshelf/internal/config"
	"github.com/cmdshelf/cmdshelf/internal/library"
	"github.com/cmdshelf/cmdshelf/internal/logging"
	"github.com/cmdshelf/cmdshelf/internal/server"
	"github.com/cmdshelf/cmdshelf/internal/storage"
	"github.com/cmdshelf/cmdshelf/internal/terminal"
	"github.com/cmdshelf/cmdshelf/internal/watcher"
)

var (
	servePort     int
	serveHostname string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the cmdshelf panel API server",
	Long: `Start the HTTP server that editor panels connect to.

The server exposes the command library over a REST API plus a
server-sent-events stream for live refresh, terminal and clipboard
dispatch. The library file is watched for external edits.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "", "Hostname to listen on")
}

// ExecuteServe runs the serve command directly, for the standalone server
// binary.
func ExecuteServe() error {
	return runServe(serveCmd, nil)
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogging(cfg)

	if err := config.GetPaths().EnsurePaths(); err != nil {
		return err
	}

	ctx := context.Background()
	store := storage.New(config.StorageDir(cfg))

	// The server dispatches runs and copies over the event bus so editor
	// hosts can route them into their own terminal and clipboard.
	terminalName := "cmdshelf"
	if cfg.Terminal != nil && cfg.Terminal.Name != "" {
		terminalName = cfg.Terminal.Name
	}
	svc := library.NewService(store,
		library.WithTerminal(terminal.NewBus(terminalName)),
		library.WithClipboard(clipboard.NewBus()),
	)
	if err := svc.Load(ctx); err != nil {
		return err
	}

	w, err := watcher.New(svc.FilePath(), svc)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	serverConfig := server.DefaultConfig()
	if cfg.Server != nil {
		if cfg.Server.Port != 0 {
			serverConfig.Port = cfg.Server.Port
		}
		if cfg.Server.Hostname != "" {
			serverConfig.Hostname = cfg.Server.Hostname
		}
	}
	if servePort != 0 {
		serverConfig.Port = servePort
	}
	if serveHostname != "" {
		serverConfig.Hostname = serveHostname
	}

	srv := server.New(serverConfig, svc)

	go func() {
		logging.Info().
			Str("hostname", serverConfig.Hostname).
			Int("port", serverConfig.Port).
			Msg("cmdshelf server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	return nil
}
