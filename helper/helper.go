package helper

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/constants"
)

// ReadLine reads a single line from the reader and returns it without the
// terminator. A carriage return right before the newline is dropped as well.
// There is no limit on the line length.
//
// A final fragment that is not followed by a newline is still returned as a
// line; the next call then reports io.EOF. io.EOF is only returned on its own
// when the stream ended without any pending bytes.
func ReadLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString(constants.LineTerminator)
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return trimLine(line), nil
		}
		return "", err
	}
	return trimLine(line), nil
}

func trimLine(line string) string {
	if n := len(line); n > 0 && line[n-1] == constants.LineTerminator {
		line = line[:n-1]
		if n := len(line); n > 0 && line[n-1] == constants.CarriageReturn {
			line = line[:n-1]
		}
	}
	return line
}

// EncodeLine returns the wire form of a line: the text followed by a newline.
func EncodeLine(line string) []byte {
	result := make([]byte, 0, len(line)+1)
	result = append(result, line...)
	return append(result, constants.LineTerminator)
}

// NoDelaySetter is implemented by *net.TCPConn.
type NoDelaySetter interface {
	SetNoDelay(noDelay bool) error
}

// SetNoDelay disables Nagle buffering on TCP connections. Other connection
// types have nothing to configure and are left as they are.
func SetNoDelay(conn net.Conn) error {
	setter, ok := conn.(NoDelaySetter)
	if !ok {
		return nil
	}
	if err := setter.SetNoDelay(true); err != nil {
		return fmt.Errorf("%w: %w", common.ErrOptionConfig, err)
	}
	return nil
}

// Retry logic for clients that race the server start. A full listen backlog
// also shows up as a refused connection, so a small backoff is needed either way.
// Failed attempts are reported to logger; nil keeps them quiet.
func DialWithRetry(address string, maxRetries int, logger common.Logger) (net.Conn, error) {
	var lastErr error

	for attempt := range maxRetries {
		conn, err := net.Dial("tcp", address)
		if err == nil {
			return conn, nil
		}
		lastErr = err

		if logger != nil {
			logger.Warningf("Connection attempt %d/%d to %s failed: %v",
				attempt+1, maxRetries, address, err)
		}

		// 200ms, then 400ms, 800ms ...
		if attempt < maxRetries-1 {
			backoffTime := time.Duration(200*(1<<attempt)) * time.Millisecond
			time.Sleep(backoffTime)
		}
	}

	if lastErr == nil {
		return nil, common.ErrDialServer
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %w", common.ErrDialServer, address, maxRetries, lastErr)
}
