package transport

import (
	"fmt"
	"strings"
)

// Transport defines the interface for network transports
type Transport interface {
	// Connect establishes a connection to the specified host and port
	Connect(host string, port int) error

	// Write sends data over the connection
	// Returns the number of bytes written
	Write(buf []byte) (int, error)

	// Read receives data from the connection
	// Returns the number of bytes read. An orderly shutdown by the peer is
	// reported as a TransportErrorConnectionClosed error with n == 0.
	Read(buf []byte) (int, error)

	// Close releases the connection and any resources owned by the transport.
	// It is idempotent.
	Close() error
}

// Factory creates a fresh, unconnected transport. Every session gets its own.
type Factory func() (Transport, error)

// Kind selects a Transport implementation
type Kind string

const (
	KindNet     Kind = "net"
	KindIouring Kind = "iouring"
	KindUring   Kind = "uring"
)

// ParseKind maps a configuration value onto a Kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindNet, KindIouring, KindUring:
		return k, nil
	case "":
		return KindNet, nil
	default:
		return "", fmt.Errorf("unknown transport %q", s)
	}
}

// NewFactory returns a Factory producing transports of the given kind
func NewFactory(kind Kind) (Factory, error) {
	switch kind {
	case KindNet, "":
		return func() (Transport, error) { return NewTcpTransport(), nil }, nil
	case KindIouring:
		return func() (Transport, error) { return NewIouringTransport() }, nil
	case KindUring:
		return func() (Transport, error) { return NewUringTransport() }, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", kind)
	}
}
