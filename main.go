package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/config"
	echoserver "github.com/involk-secure-1609/goEcho/echoServer"
	"github.com/involk-secure-1609/goEcho/listener"
	"golang.org/x/sync/errgroup"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// BinaryName - name of run application binary
var BinaryName = strings.TrimSuffix(filepath.Base(os.Args[0]), filepath.Ext(os.Args[0]))

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run serves until ctx is cancelled and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(BinaryName, args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	fmt.Fprintf(stdout, "Echo server starting. port = %d, backlog = %d\n", cfg.Port, cfg.Backlog)
	logger := common.NewLogger(stdout, stderr, cfg.LogLevel)
	if cfg.File != "" {
		logger.Debugf("Loaded config file %s", cfg.File)
	}

	ln, err := listener.Listen(cfg.Port, cfg.Backlog)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to listen on port %d, %v\n", cfg.Port, err)
		return exitFailure
	}

	echoServer, err := echoserver.NewEchoServer(ln, logger)
	if err != nil {
		ln.Close()
		fmt.Fprintln(stderr, err)
		return exitFailure
	}
	logger.Infof("Listening on %s, press Ctrl-C to stop", ln.Addr())

	if err := serveUntilStopped(ctx, echoServer, logger); err != nil {
		logger.Errorf("Echo server stopped: %v", err)
		return exitFailure
	}
	logger.Infof("Echo server stopped")
	return exitOK
}

type server interface {
	Serve(ctx context.Context) error
}

// serveUntilStopped runs the accept loop until ctx is cancelled or the loop
// fails. Only a cancelled ctx counts as a stop signal.
func serveUntilStopped(ctx context.Context, echoServer server, logger common.Logger) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return echoServer.Serve(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		if ctx.Err() != nil {
			logger.Infof("Got stop signal")
		}
		return nil
	})
	return group.Wait()
}
