package common

import (
	"errors"
	"fmt"
)

// Define custom error types for better error identification
var (
	ErrInvalidPort     = errors.New("port must be a number between 1 and 65535")
	ErrInvalidBacklog  = errors.New("backlog must be an integer between 0 and 2147483647")
	ErrInvalidLogLevel = errors.New("unknown log level")
	ErrReadConfig      = errors.New("error reading config file")

	ErrAccept       = errors.New("error accepting connection")
	ErrOptionConfig = errors.New("failed to set nodelay on incoming connection")

	ErrReadConnection  = errors.New("error reading from socket")
	ErrWriteConnection = errors.New("failed to write to socket")

	ErrDialServer = errors.New("error while trying to establish tcp connection with a server using dial")

	ErrServerStarted = errors.New("echo server already started")
)

// BindError is returned when the listening endpoint could not be created.
// It is fatal for the process. The caller adds the port to the message.
type BindError struct {
	Port uint16
	// Op is the socket call that failed: socket, setsockopt, bind, listen or file.
	Op  string
	Err error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
