// Package client talks the line echo protocol from the other side of the
// connection.
package client

import (
	"bufio"
	"net"
	"sync"

	"github.com/involk-secure-1609/goEcho/common"
	"github.com/involk-secure-1609/goEcho/helper"
)

type Client struct {
	clientMu sync.Mutex
	conn     net.Conn
	reader   *bufio.Reader
}

// Dial connects to an echo server, retrying while the server is not up yet.
// logger may be nil.
func Dial(address string, maxRetries int, logger common.Logger) (*Client, error) {
	conn, err := helper.DialWithRetry(address, maxRetries, logger)
	if err != nil {
		return nil, err
	}
	// small lines should not wait for Nagle
	if err := helper.SetNoDelay(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return NewClient(conn), nil
}

// NewClient uses an established connection.
func NewClient(conn net.Conn) *Client {
	return &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

func (client *Client) LocalAddr() net.Addr {
	return client.conn.LocalAddr()
}

// Send writes one line. The line must not contain a newline.
func (client *Client) Send(line string) error {
	_, err := client.conn.Write(helper.EncodeLine(line))
	return err
}

// Receive reads one line. io.EOF means the server closed the connection.
func (client *Client) Receive() (string, error) {
	return helper.ReadLine(client.reader)
}

// Echo sends a line and waits for the answer. Calls are serialized so that
// replies cannot be paired with the wrong request.
func (client *Client) Echo(line string) (string, error) {
	client.clientMu.Lock()
	defer client.clientMu.Unlock()

	if err := client.Send(line); err != nil {
		return "", err
	}
	return client.Receive()
}

// CloseWrite shuts down the sending side; the server sees end of stream
// while replies can still be read.
func (client *Client) CloseWrite() error {
	if tcpConn, ok := client.conn.(interface{ CloseWrite() error }); ok {
		return tcpConn.CloseWrite()
	}
	return client.conn.Close()
}

func (client *Client) Close() error {
	return client.conn.Close()
}
