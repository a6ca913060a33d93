package transport

import (
	"fmt"
	"net"
	"strconv"
	"syscall"

	"github.com/iceber/iouring-go"
	"github.com/nczempin/httpfetch/errors"
)

// IouringTransport implements Transport using io_uring for async I/O.
// Every submission is completed on the ring's completion goroutine and handed
// back over a channel, so a session suspends at each connect, send and recv.
type IouringTransport struct {
	iour *iouring.IOURing
	fd   int
}

// NewIouringTransport creates a new TCP transport with its own io_uring
func NewIouringTransport() (*IouringTransport, error) {
	iour, err := iouring.New(ringEntries)
	if err != nil {
		return nil, errors.NewTransportError(
			errors.TransportErrorIoUringInit,
			"failed to initialize io_uring",
			err,
		)
	}

	return &IouringTransport{iour: iour, fd: -1}, nil
}

// Connect opens a non-blocking socket and connects it through the ring
func (t *IouringTransport) Connect(host string, port int) error {
	if t.fd >= 0 {
		return errors.NewTransportError(
			errors.TransportErrorSocketConnectFailure,
			"already connected",
			nil,
		)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	tcpAddr, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return errors.NewTransportError(
			errors.TransportErrorDnsFailure,
			fmt.Sprintf("failed to resolve %s", addr),
			err,
		)
	}

	fd, err := newSocket(true)
	if err != nil {
		return err
	}

	req, err := iouring.Connect(fd, sockaddr(tcpAddr))
	c := completion{submitErr: err}
	if err == nil {
		c = t.complete(req)
	}
	if c.submitErr != nil {
		syscall.Close(fd)
		return errors.NewTransportError(
			errors.TransportErrorIoUringSubmit,
			"failed to submit connect request",
			c.submitErr,
		)
	}
	if c.err != nil {
		syscall.Close(fd)
		return errors.NewTransportError(
			errors.TransportErrorSocketConnectFailure,
			fmt.Sprintf("failed to connect to %s", addr),
			c.err,
		)
	}

	t.fd = fd
	return nil
}

// Write sends the whole buffer, one ring send per partial write
func (t *IouringTransport) Write(buf []byte) (int, error) {
	if t.fd < 0 {
		return 0, notConnected(errors.TransportErrorSocketWriteFailure)
	}
	return ringWrite(buf, func(b []byte) completion {
		return t.complete(iouring.Send(t.fd, b, 0))
	})
}

// Read receives into buf with a single ring recv
func (t *IouringTransport) Read(buf []byte) (int, error) {
	if t.fd < 0 {
		return 0, notConnected(errors.TransportErrorSocketReadFailure)
	}
	return ringRead(buf, func(b []byte) completion {
		return t.complete(iouring.Recv(t.fd, b, 0))
	})
}

// Close closes the socket and shuts the ring down
func (t *IouringTransport) Close() error {
	var err error
	if t.fd >= 0 {
		if cerr := syscall.Close(t.fd); cerr != nil {
			err = errors.NewTransportError(
				errors.TransportErrorSocketCloseFailure,
				"failed to close socket",
				cerr,
			)
		}
		t.fd = -1
	}

	if t.iour != nil {
		t.iour.Close()
		t.iour = nil
	}

	return err
}

// complete submits req and blocks until its result arrives on the channel
func (t *IouringTransport) complete(req iouring.PrepRequest) completion {
	ch := make(chan iouring.Result, 1)
	if _, err := t.iour.SubmitRequest(req, ch); err != nil {
		return completion{submitErr: err}
	}

	n, err := (<-ch).ReturnInt()
	return completion{n: n, err: err}
}

// newSocket creates an IPv4 stream socket with TCP_NODELAY set
func newSocket(nonblock bool) (int, error) {
	fd, err := syscall.Socket(syscall.AF_INET, syscall.SOCK_STREAM, 0)
	if err != nil {
		return -1, errors.NewTransportError(
			errors.TransportErrorSocketCreateFailure,
			"failed to create socket",
			err,
		)
	}

	if nonblock {
		if err := syscall.SetNonblock(fd, true); err != nil {
			syscall.Close(fd)
			return -1, errors.NewTransportError(
				errors.TransportErrorSocketCreateFailure,
				"failed to set non-blocking mode",
				err,
			)
		}
	}

	if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_TCP, syscall.TCP_NODELAY, 1); err != nil {
		syscall.Close(fd)
		return -1, errors.NewTransportError(
			errors.TransportErrorSocketCreateFailure,
			"failed to set TCP_NODELAY",
			err,
		)
	}

	return fd, nil
}

// sockaddr converts a resolved IPv4 address for the raw socket calls
func sockaddr(addr *net.TCPAddr) *syscall.SockaddrInet4 {
	sa := &syscall.SockaddrInet4{Port: addr.Port}
	copy(sa.Addr[:], addr.IP.To4())
	return sa
}
