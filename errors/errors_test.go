package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHttpError_Message(t *testing.T) {
	err := NewTransportError(TransportErrorSocketReadFailure, "read failed", io.ErrUnexpectedEOF)
	require.Equal(t, "Transport error (socket read failure): read failed (caused by: unexpected EOF)", err.Error())

	var nilErr *HttpError
	require.Equal(t, "no error", nilErr.Error())
}

func TestHttpError_Unwrap(t *testing.T) {
	err := NewTransportError(TransportErrorSocketConnectFailure, "connect", io.EOF)
	require.True(t, stderrors.Is(err, io.EOF))
}

func TestParserError_CarriesProtocolCode(t *testing.T) {
	inner := NewProtocolError(ProtocolErrorMalformedStatusLine, "too few tokens")
	err := NewParserError("could not parse the raw response", inner)

	require.True(t, IsParserError(err))
	require.Equal(t, ProtocolErrorMalformedStatusLine, ProtocolCode(err))

	var unwrapped *HttpError
	require.True(t, stderrors.As(stderrors.Unwrap(err), &unwrapped))
	require.Equal(t, ErrorProtocol, unwrapped.Type)
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		connection bool
		transport  bool
		closed     bool
	}{
		{"dns", NewTransportError(TransportErrorDnsFailure, "", nil), true, false, false},
		{"refused", NewTransportError(TransportErrorSocketConnectFailure, "", nil), true, false, false},
		{"read", NewTransportError(TransportErrorSocketReadFailure, "", nil), false, true, false},
		{"write", NewTransportError(TransportErrorSocketWriteFailure, "", nil), false, true, false},
		{"closed", NewTransportError(TransportErrorConnectionClosed, "", nil), false, false, true},
		{"wrapped", fmt.Errorf("session: %w", NewTransportError(TransportErrorConnectionClosed, "", nil)), false, false, true},
		{"protocol", NewProtocolError(ProtocolErrorMalformedHeader, ""), false, false, false},
		{"plain", io.EOF, false, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.connection, IsConnectionError(tc.err))
			require.Equal(t, tc.transport, IsTransportError(tc.err))
			require.Equal(t, tc.closed, IsConnectionClosed(tc.err))
		})
	}
}
