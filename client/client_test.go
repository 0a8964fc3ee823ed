package client

import (
	"bufio"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reverseServer answers every line with the line reversed so the tests can
// tell a reply apart from a local loopback of the request.
func reverseServer(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			runes := []rune(line[:len(line)-1])
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			if _, err := conn.Write([]byte(string(runes) + "\n")); err != nil {
				return
			}
		}
	}()
	return listener
}

func TestClientEcho(t *testing.T) {
	listener := reverseServer(t)
	defer listener.Close()

	client, err := Dial(listener.Addr().String(), 3, nil)
	require.NoError(t, err)
	defer client.Close()

	reply, err := client.Echo("abc")
	require.NoError(t, err)
	assert.Equal(t, "cba", reply)

	reply, err = client.Echo("")
	require.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestClientCloseWrite(t *testing.T) {
	listener := reverseServer(t)
	defer listener.Close()

	client, err := Dial(listener.Addr().String(), 3, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Send("pending"))
	require.NoError(t, client.CloseWrite())

	reply, err := client.Receive()
	require.NoError(t, err)
	assert.Equal(t, "gnidnep", reply)

	_, err = client.Receive()
	assert.ErrorIs(t, err, io.EOF)
}

func TestClientOverPipe(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	client := NewClient(local)

	go func() {
		reader := bufio.NewReader(remote)
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		remote.Write([]byte(line))
	}()

	reply, err := client.Echo("through a pipe")
	require.NoError(t, err)
	assert.Equal(t, "through a pipe", reply)
	assert.NoError(t, client.CloseWrite())
}
