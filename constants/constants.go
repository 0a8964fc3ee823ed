package constants

import "math"

const (
	// Address the echo server binds on. Only loopback is served.
	LoopbackAddress = "127.0.0.1"

	DefaultPort    = 49152
	DefaultBacklog = 0

	MinPort = 1
	MaxPort = 65535

	// listen(2) takes the backlog as a C int
	MaxBacklog = math.MaxInt32

	// LineTerminator marks the end of every line on the wire.
	LineTerminator = '\n'
	// CarriageReturn is dropped when it directly precedes the terminator.
	CarriageReturn = '\r'

	// snowflake node used for connection ids
	ConnectionIdNode = 1
)
