package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-gorillas/internal/platform/tui"
)

var (
	flagSSHAddr        string
	flagHostKey        string
	flagIdleTimeout    int
	flagSpectateAddr   string
	flagSpectateOrigin []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gorillas SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with the menu. Besides local
hotseat and vs CPU matches, players can host an online match and share
its join code with an opponent on another connection.
Standings are stored per-server (all users share the same board).

With --spectate, running online matches are also streamed over
WebSocket: GET /matches lists them and /ws?code=<join code> follows one.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gorillas/host_key

Examples:
  gorillas serve                           # Listen on :23234 with auto-generated key
  gorillas serve --ssh :2222               # Listen on port 2222
  gorillas serve --host-key ./my_host_key  # Use specific host key
  gorillas serve --spectate :8080          # Stream online matches
  gorillas serve --db ./gorillas.db        # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagSpectateAddr, "spectate", "", "Serve the spectator feed on this address (host:port)")
	serveCmd.Flags().StringSliceVar(&flagSpectateOrigin, "spectate-origin", nil, "Browser origins allowed to watch (e.g. example.com)")
}

func runServe(_ *cobra.Command, _ []string) error {
	// A server logs to stderr unless --log-file says otherwise.
	serverLogger := logger
	if flagLogFile == "" {
		serverLogger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gorillas-ssh",
		})
		if flagVerbose {
			serverLogger.SetLevel(log.DebugLevel)
		}
	}

	cfg := tui.SSHServerConfig{
		Address:         flagSSHAddr,
		HostKeyPath:     flagHostKey,
		DBPath:          flagDBPath,
		IdleTimeout:     time.Duration(flagIdleTimeout) * time.Minute,
		SpectateAddress: flagSpectateAddr,
		SpectateOrigins: flagSpectateOrigin,
		Logger:          serverLogger,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	fmt.Printf("Starting gorillas SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	if cfg.SpectateAddress != "" {
		fmt.Printf("Spectator feed on %s\n", cfg.SpectateAddress)
	}
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
