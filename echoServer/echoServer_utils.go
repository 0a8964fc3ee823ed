package echoserver

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/helper"
)

// handleConnection echoes lines until the client closes its side or an I/O
// error happens, then closes the connection. Reads and writes alternate on
// this goroutine only, so the reader and the connection need no locking.
func (echoServer *EchoServer) handleConnection(conn net.Conn, connectionId int64) {
	defer conn.Close()

	address := conn.RemoteAddr()
	reader := bufio.NewReader(conn)

	for {
		line, err := helper.ReadLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				echoServer.logger.Debugf("Connection %d %s closed by client", connectionId, address)
				return
			}
			echoServer.logger.Errorf("%v %d %s: %v", common.ErrReadConnection, connectionId, address, err)
			return
		}

		if _, err := conn.Write(helper.EncodeLine(line)); err != nil {
			echoServer.logger.Errorf("%v %d %s: %v", common.ErrWriteConnection, connectionId, address, err)
			return
		}
	}
}
