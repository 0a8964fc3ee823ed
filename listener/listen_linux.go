//go:build linux

package listener

import (
	"fmt"
	"net"
	"os"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/constants"
	"golang.org/x/sys/unix"
)

func listen(port uint16, backlog int) (net.Listener, error) {
	fail := func(op string, err error) error {
		return &common.BindError{Port: port, Op: op, Err: err}
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fail("socket", err)
	}

	// same as the runtime does for its own listeners; an active listener on
	// the port still makes bind fail
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, fail("setsockopt", err)
	}

	address := &unix.SockaddrInet4{Port: int(port)}
	copy(address.Addr[:], net.ParseIP(constants.LoopbackAddress).To4())
	if err := unix.Bind(fd, address); err != nil {
		unix.Close(fd)
		return nil, fail("bind", err)
	}

	if err := unix.Listen(fd, backlog); err != nil {
		unix.Close(fd)
		return nil, fail("listen", err)
	}

	// FileListener dups the descriptor, the original is closed with the file
	file := os.NewFile(uintptr(fd), fmt.Sprintf("tcp:%s", Address(port)))
	defer file.Close()

	listener, err := net.FileListener(file)
	if err != nil {
		return nil, &common.BindError{Port: port, Op: "file", Err: err}
	}
	return listener, nil
}
