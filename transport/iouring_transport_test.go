package transport

import (
	"net"
	"testing"

	"github.com/nczempin/httpfetch/errors"
)

// ringTransports returns the io_uring backed transports, skipping the test
// when the kernel (or sandbox) refuses to set up a ring.
func ringTransports(t *testing.T) map[string]Transport {
	t.Helper()

	iour, err := NewIouringTransport()
	if err != nil {
		t.Skipf("io_uring unavailable: %v", err)
	}
	ur, err := NewUringTransport()
	if err != nil {
		iour.Close()
		t.Skipf("io_uring unavailable: %v", err)
	}

	return map[string]Transport{"iouring": iour, "uring": ur}
}

func TestRingTransports_Exchange(t *testing.T) {
	response := "HTTP/1.1 200 OK\r\n\r\nhi"

	for name, tr := range ringTransports(t) {
		t.Run(name, func(t *testing.T) {
			defer tr.Close()

			host, port, cleanup := setupTcpTestServer(t, func(conn net.Conn) {
				buf := make([]byte, 1024)
				conn.Read(buf)
				conn.Write([]byte(response))
			})
			defer cleanup()

			if err := tr.Connect(host, port); err != nil {
				t.Fatalf("Connect failed: %v", err)
			}

			if _, err := tr.Write([]byte("GET / HTTP/1.1\r\n\r\n")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			var got []byte
			buf := make([]byte, 1024)
			for {
				n, err := tr.Read(buf)
				if errors.IsConnectionClosed(err) {
					break
				}
				if err != nil {
					t.Fatalf("Read failed: %v", err)
				}
				got = append(got, buf[:n]...)
			}

			if string(got) != response {
				t.Errorf("Expected %q, got %q", response, string(got))
			}
		})
	}
}

func TestRingTransports_ConnectionRefused(t *testing.T) {
	for name, tr := range ringTransports(t) {
		t.Run(name, func(t *testing.T) {
			defer tr.Close()

			err := tr.Connect("127.0.0.1", 65531)
			requireTransportError(t, err, errors.TransportErrorSocketConnectFailure)
		})
	}
}
