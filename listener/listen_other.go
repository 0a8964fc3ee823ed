//go:build !linux

package listener

import (
	"context"
	"net"

	"github.com/involk-secure-1609/goEcho/common"
)

// The portable path cannot pass a backlog through, the runtime picks one.
func listen(port uint16, _ int) (net.Listener, error) {
	var listenConfig net.ListenConfig
	listener, err := listenConfig.Listen(context.Background(), "tcp4", Address(port))
	if err != nil {
		return nil, &common.BindError{Port: port, Op: "listen", Err: err}
	}
	return listener, nil
}
