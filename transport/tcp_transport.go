package transport

import (
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/nczempin/httpfetch/errors"
)

// TcpTransport implements Transport on top of the runtime network poller.
// Blocking calls park only the calling goroutine.
type TcpTransport struct {
	conn net.Conn
}

// NewTcpTransport creates a new TcpTransport instance
func NewTcpTransport() *TcpTransport {
	return &TcpTransport{}
}

// Connect establishes a TCP connection to the specified host and port
func (t *TcpTransport) Connect(host string, port int) error {
	if t.conn != nil {
		return errors.NewTransportError(
			errors.TransportErrorSocketConnectFailure,
			"already connected",
			nil,
		)
	}

	addr := net.JoinHostPort(host, fmt.Sprint(port))

	conn, err := net.Dial("tcp4", addr)
	if err != nil {
		var dnsErr *net.DNSError
		if stderrors.As(err, &dnsErr) {
			return errors.NewTransportError(
				errors.TransportErrorDnsFailure,
				fmt.Sprintf("failed to resolve %s", addr),
				err,
			)
		}
		return errors.NewTransportError(
			errors.TransportErrorSocketConnectFailure,
			fmt.Sprintf("failed to connect to %s", addr),
			err,
		)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			conn.Close()
			return errors.NewTransportError(
				errors.TransportErrorSocketCreateFailure,
				"failed to set TCP_NODELAY",
				err,
			)
		}
	}

	t.conn = conn
	return nil
}

// Write sends the whole buffer over the TCP connection
func (t *TcpTransport) Write(buf []byte) (int, error) {
	if t.conn == nil {
		return 0, errors.NewTransportError(
			errors.TransportErrorSocketWriteFailure,
			"not connected",
			nil,
		)
	}

	n, err := t.conn.Write(buf)
	if err != nil {
		return n, errors.NewTransportError(
			errors.TransportErrorSocketWriteFailure,
			"write failed",
			err,
		)
	}

	return n, nil
}

// Read receives data from the TCP connection
func (t *TcpTransport) Read(buf []byte) (int, error) {
	if t.conn == nil {
		return 0, errors.NewTransportError(
			errors.TransportErrorSocketReadFailure,
			"not connected",
			nil,
		)
	}

	n, err := t.conn.Read(buf)
	if n > 0 {
		// net.Conn may return data together with io.EOF; the close is seen
		// again on the next call.
		return n, nil
	}

	if err == nil || stderrors.Is(err, io.EOF) {
		return 0, errors.NewTransportError(
			errors.TransportErrorConnectionClosed,
			"connection closed by peer",
			err,
		)
	}

	if stderrors.Is(err, syscall.ECONNRESET) {
		return 0, errors.NewTransportError(
			errors.TransportErrorSocketReadFailure,
			"connection reset by peer",
			err,
		)
	}

	return 0, errors.NewTransportError(
		errors.TransportErrorSocketReadFailure,
		"read failed",
		err,
	)
}

// Close closes the TCP connection
func (t *TcpTransport) Close() error {
	if t.conn == nil {
		return nil
	}

	err := t.conn.Close()
	t.conn = nil

	if err != nil {
		return errors.NewTransportError(
			errors.TransportErrorSocketCloseFailure,
			"failed to close socket",
			err,
		)
	}

	return nil
}
