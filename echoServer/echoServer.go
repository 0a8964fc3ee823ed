package echoserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/constants"
	"github.com/involk-secure-1609/goEcho/helper"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = 1 * time.Second
)

// EchoServer accepts connections from a listener and echoes every line it
// reads on a connection back to the same connection.
type EchoServer struct {
	Listener    net.Listener
	logger      common.Logger
	idGenerator *snowflake.Node

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// NewEchoServer wraps an already listening endpoint. A nil logger is
// replaced by the default one.
func NewEchoServer(listener net.Listener, logger common.Logger) (*EchoServer, error) {
	if listener == nil {
		return nil, errors.New("echoserver.NewEchoServer: listener is nil")
	}
	if logger == nil {
		logger = common.DefaultLogger(common.INFO)
	}
	node, err := snowflake.NewNode(constants.ConnectionIdNode)
	if err != nil {
		return nil, fmt.Errorf("echoserver.NewEchoServer: %w", err)
	}
	return &EchoServer{
		Listener:    listener,
		logger:      logger,
		idGenerator: node,
		done:        make(chan struct{}),
	}, nil
}

// Start runs the accept loop on its own goroutine and returns immediately.
func (echoServer *EchoServer) Start() error {
	ctx, err := echoServer.begin(context.Background())
	if err != nil {
		return err
	}
	go echoServer.run(ctx)
	return nil
}

// Serve runs the accept loop on the calling goroutine until ctx is done or
// Close is called. A cancelled context is a normal return.
func (echoServer *EchoServer) Serve(ctx context.Context) error {
	ctx, err := echoServer.begin(ctx)
	if err != nil {
		return err
	}
	return echoServer.run(ctx)
}

func (echoServer *EchoServer) begin(parent context.Context) (context.Context, error) {
	echoServer.mu.Lock()
	defer echoServer.mu.Unlock()
	if echoServer.started {
		return nil, common.ErrServerStarted
	}
	echoServer.started = true

	ctx, cancel := context.WithCancel(parent)
	echoServer.cancel = cancel
	return ctx, nil
}

func (echoServer *EchoServer) run(ctx context.Context) error {
	err := echoServer.serve(ctx)

	echoServer.mu.Lock()
	echoServer.cancel()
	echoServer.err = err
	echoServer.mu.Unlock()

	close(echoServer.done)
	return err
}

// Close stops accepting and waits for the accept loop to return.
// Connections already being echoed are left alone.
func (echoServer *EchoServer) Close() error {
	echoServer.mu.Lock()
	if !echoServer.started {
		echoServer.started = true
		echoServer.mu.Unlock()
		close(echoServer.done)
		return echoServer.Listener.Close()
	}
	cancel := echoServer.cancel
	echoServer.mu.Unlock()

	// nil when an earlier Close ran before the loop was ever started
	if cancel != nil {
		cancel()
	}
	<-echoServer.done

	echoServer.mu.Lock()
	defer echoServer.mu.Unlock()
	return echoServer.err
}

// Done is closed once the accept loop has returned.
func (echoServer *EchoServer) Done() <-chan struct{} {
	return echoServer.done
}

func (echoServer *EchoServer) serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		echoServer.Listener.Close()
	})
	defer stop()

	backoff := time.Duration(0)
	for {
		conn, err := echoServer.Listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return fmt.Errorf("%w: %w", common.ErrAccept, err)
			}

			echoServer.logger.Errorf("%v: %v", common.ErrAccept, err)
			backoff = nextBackoff(backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil
			}
			continue
		}
		backoff = 0

		echoServer.dispatch(conn)
	}
}

func nextBackoff(backoff time.Duration) time.Duration {
	if backoff == 0 {
		return minAcceptBackoff
	}
	return min(backoff*2, maxAcceptBackoff)
}

// dispatch configures the new connection and hands it to its own goroutine.
// A failed no-delay setting is only reported.
func (echoServer *EchoServer) dispatch(conn net.Conn) {
	connectionId := echoServer.idGenerator.Generate().Int64()
	address := conn.RemoteAddr()

	if err := helper.SetNoDelay(conn); err != nil {
		echoServer.logger.Errorf("%v (%s)", err, address)
	}

	echoServer.logger.Infof("Got new local client connection %s (id %d)", address, connectionId)
	go echoServer.handleConnection(conn, connectionId)
}
