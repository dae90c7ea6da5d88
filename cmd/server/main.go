// Command server accepts raw TCP connections, negotiates a codec
// against each client's Basic Settings Exchange Client Core Data, and
// drives the screen-encoding worker's output onto the connection as
// Fast-Path surface updates.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rcarmo/go-rdp/internal/config"
	"github.com/rcarmo/go-rdp/internal/logging"
	"github.com/rcarmo/go-rdp/internal/server"
)

func main() {
	var opts config.LoadOptions
	flag.StringVar(&opts.Host, "host", "", "listen host (overrides SERVER_HOST)")
	flag.StringVar(&opts.Port, "port", "", "listen port (overrides SERVER_PORT)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flag.Parse()

	cfg, err := config.LoadWithOverrides(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.SetLevelFromString(cfg.Logging.Level)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logging.Error("server: listen %s: %v", addr, err)
		os.Exit(1)
	}
	logging.Info("server: listening on %s", addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				logging.Warn("server: accept: %v", err)
				continue
			}
		}
		go handleConn(ctx, conn, cfg)
	}
}

// handleConn negotiates capabilities and drives one client connection's
// session until ctx is canceled or the connection fails. It does not
// perform the MCS/X.224/TLS/CredSSP connection setup an RDP client
// expects before Basic Settings Exchange; that handshake is out of
// scope here, so NegotiateCapabilities is fed directly from the
// connection, matching a client that has already completed it upstream
// (e.g. behind a protocol-terminating proxy).
func handleConn(ctx context.Context, conn net.Conn, cfg *config.Config) {
	defer conn.Close()

	caps, err := server.NegotiateCapabilities(conn, nil, cfg.RDP.DefaultWidth, cfg.RDP.DefaultHeight)
	if err != nil {
		logging.Warn("server: negotiate capabilities from %s: %v", conn.RemoteAddr(), err)
		return
	}

	sess, err := server.NewSession(conn, caps)
	if err != nil {
		logging.Warn("server: %s: no codec for client capabilities: %v", conn.RemoteAddr(), err)
		return
	}
	defer sess.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sess.RunPlaceholderCapture(connCtx)

	if err := sess.Run(connCtx); err != nil {
		logging.Warn("server: session %s ended: %v", conn.RemoteAddr(), err)
	}
}
