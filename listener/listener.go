// Package listener creates the loopback listening endpoint of the echo server.
//
// On Linux the socket is created by hand so the configured backlog reaches
// listen(2) unchanged; the Go runtime would otherwise substitute somaxconn.
package listener

import (
	"net"
	"strconv"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/constants"
)

// Listen binds a stream socket to 127.0.0.1:port and marks it listening with
// the given backlog. Port 0 lets the kernel pick a free port.
//
// Every failure after validation is reported as a *common.BindError.
func Listen(port uint16, backlog int) (net.Listener, error) {
	if backlog < 0 || backlog > constants.MaxBacklog {
		return nil, common.ErrInvalidBacklog
	}
	return listen(port, backlog)
}

// Address returns host:port on the loopback interface.
func Address(port uint16) string {
	return net.JoinHostPort(constants.LoopbackAddress, strconv.Itoa(int(port)))
}
