package transport

import (
	"github.com/nczempin/httpfetch/errors"
)

// ringEntries is the submission queue depth of every ring a transport creates
const ringEntries = 32

// completion is the outcome of one ring submission. submitErr means the
// request never reached the ring; err means the kernel completed it with a
// failure.
type completion struct {
	n         int
	submitErr error
	err       error
}

// submitFunc submits one operation on buf and waits for its completion
type submitFunc func(buf []byte) completion

// ringWrite submits sends until all of buf is written
func ringWrite(buf []byte, send submitFunc) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := ringTransfer(buf[total:], send, errors.TransportErrorSocketWriteFailure, "write")
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// ringRead submits a single receive into buf
func ringRead(buf []byte, recv submitFunc) (int, error) {
	return ringTransfer(buf, recv, errors.TransportErrorSocketReadFailure, "read")
}

func ringTransfer(buf []byte, submit submitFunc, failure errors.TransportError, op string) (int, error) {
	c := submit(buf)
	if c.submitErr != nil {
		return 0, errors.NewTransportError(
			errors.TransportErrorIoUringSubmit,
			"failed to submit "+op+" request",
			c.submitErr,
		)
	}

	if c.err != nil {
		return 0, errors.NewTransportError(failure, op+" failed", c.err)
	}

	if c.n <= 0 && len(buf) > 0 {
		return 0, errors.NewTransportError(
			errors.TransportErrorConnectionClosed,
			"connection closed by peer",
			nil,
		)
	}

	return c.n, nil
}

func notConnected(code errors.TransportError) error {
	return errors.NewTransportError(code, "not connected", nil)
}
