// Package connstate defines the VT6 connection state machine's five
// states, kept in a package of its own so that both the handler chain and
// the connection implementation can refer to it without creating an
// import cycle between them.
package connstate

// State is one of the five states a Connection can be in.
type State int

const (
	// Handshake is the initial state of every accepted socket.
	Handshake State = iota
	// Msgio is reached once a posix1.client-hello is authorized; both
	// directions carry framed VT6 messages.
	Msgio
	// Stdin is reached once a posix1.stdin-hello is authorized; any
	// further inbound bytes are an error.
	Stdin
	// Stdout is reached once a posix1.stdout-hello is authorized; inbound
	// bytes are delivered to the StdoutConnector.
	Stdout
	// Teardown is absorbing: once reached, a connection never leaves it.
	Teardown
)

func (s State) String() string {
	switch s {
	case Handshake:
		return "handshake"
	case Msgio:
		return "msgio"
	case Stdin:
		return "stdin"
	case Stdout:
		return "stdout"
	case Teardown:
		return "teardown"
	default:
		return "unknown"
	}
}

// CanReceiveMessages reports whether enqueue_message is valid in state s.
func (s State) CanReceiveMessages() bool {
	return s == Handshake || s == Msgio
}

// CanReceiveStdin reports whether enqueue_stdin is valid in state s.
func (s State) CanReceiveStdin() bool {
	return s == Stdin
}

// StdoutConnector receives raw bytes for a socket in Stdout state. Defined
// here, rather than in package connection, so that package handler can
// reference it without creating an import cycle.
type StdoutConnector interface {
	Receive(data []byte)
}

// MessageConnector is a marker for state associated with a Msgio socket.
// It carries no required methods; applications may use any concrete type.
type MessageConnector interface{}

