package transport

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"syscall"

	"github.com/godzie44/go-uring/uring"
	"github.com/nczempin/httpfetch/errors"
)

// UringTransport implements Transport using godzie44/go-uring. Connect is a
// plain blocking connect; send and receive go through the ring.
type UringTransport struct {
	ring *uring.Ring
	file *os.File
}

// NewUringTransport creates a new TCP transport backed by a go-uring ring
func NewUringTransport() (*UringTransport, error) {
	ring, err := uring.New(ringEntries)
	if err != nil {
		return nil, errors.NewTransportError(
			errors.TransportErrorIoUringInit,
			"failed to initialize io_uring",
			err,
		)
	}

	return &UringTransport{ring: ring}, nil
}

// Connect establishes a TCP connection
func (t *UringTransport) Connect(host string, port int) error {
	if t.file != nil {
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

	fd, err := newSocket(false)
	if err != nil {
		return err
	}

	if err := syscall.Connect(fd, sockaddr(tcpAddr)); err != nil {
		syscall.Close(fd)
		return errors.NewTransportError(
			errors.TransportErrorSocketConnectFailure,
			fmt.Sprintf("failed to connect to %s", addr),
			err,
		)
	}

	t.file = os.NewFile(uintptr(fd), "socket")
	return nil
}

// Write sends the whole buffer through the ring
func (t *UringTransport) Write(buf []byte) (int, error) {
	if t.file == nil {
		return 0, notConnected(errors.TransportErrorSocketWriteFailure)
	}
	return ringWrite(buf, func(b []byte) completion {
		return t.complete(uring.Write(t.file.Fd(), b, 0))
	})
}

// Read receives into buf through the ring
func (t *UringTransport) Read(buf []byte) (int, error) {
	if t.file == nil {
		return 0, notConnected(errors.TransportErrorSocketReadFailure)
	}
	return ringRead(buf, func(b []byte) completion {
		return t.complete(uring.Read(t.file.Fd(), b, 0))
	})
}

// Close closes the socket and the ring
func (t *UringTransport) Close() error {
	var err error
	if t.file != nil {
		if cerr := t.file.Close(); cerr != nil {
			err = errors.NewTransportError(
				errors.TransportErrorSocketCloseFailure,
				"failed to close socket",
				cerr,
			)
		}
		t.file = nil
	}

	if t.ring != nil {
		t.ring.Close()
		t.ring = nil
	}

	return err
}

// complete queues op, submits it and waits for its single completion
func (t *UringTransport) complete(op uring.Operation) completion {
	if err := t.ring.QueueSQE(op, 0, 0); err != nil {
		return completion{submitErr: err}
	}
	if _, err := t.ring.Submit(); err != nil {
		return completion{submitErr: err}
	}

	cqe, err := t.ring.WaitCQEvents(1)
	if err != nil {
		return completion{err: err}
	}
	defer t.ring.SeenCQE(cqe)

	if err := cqe.Error(); err != nil {
		return completion{err: err}
	}
	return completion{n: int(cqe.Res)}
}
