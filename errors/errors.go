package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorNone ErrorType = iota
	ErrorTransport
	ErrorProtocol
	ErrorParser
	ErrorInvalidArgument
)

// TransportError represents transport-layer specific errors
type TransportError int

const (
	TransportErrorNone TransportError = iota
	TransportErrorSocketCreateFailure
	TransportErrorSocketConnectFailure
	TransportErrorSocketReadFailure
	TransportErrorSocketWriteFailure
	TransportErrorConnectionClosed
	TransportErrorSocketCloseFailure
	TransportErrorDnsFailure
	TransportErrorIoUringInit
	TransportErrorIoUringSubmit
)

func (e TransportError) String() string {
	switch e {
	case TransportErrorSocketCreateFailure:
		return "socket create failure"
	case TransportErrorSocketConnectFailure:
		return "socket connect failure"
	case TransportErrorSocketReadFailure:
		return "socket read failure"
	case TransportErrorSocketWriteFailure:
		return "socket write failure"
	case TransportErrorConnectionClosed:
		return "connection closed"
	case TransportErrorSocketCloseFailure:
		return "socket close failure"
	case TransportErrorDnsFailure:
		return "dns failure"
	case TransportErrorIoUringInit:
		return "io_uring init failure"
	case TransportErrorIoUringSubmit:
		return "io_uring submit failure"
	default:
		return fmt.Sprintf("transport error %d", int(e))
	}
}

// ProtocolError represents protocol-layer specific errors
type ProtocolError int

const (
	ProtocolErrorNone ProtocolError = iota
	ProtocolErrorMalformedStatusLine
	ProtocolErrorMalformedStatusCode
	ProtocolErrorMalformedHeader
	ProtocolErrorInvalidContentLength
	ProtocolErrorMalformedRequestLine
)

func (e ProtocolError) String() string {
	switch e {
	case ProtocolErrorMalformedStatusLine:
		return "malformed status line"
	case ProtocolErrorMalformedStatusCode:
		return "malformed status code"
	case ProtocolErrorMalformedHeader:
		return "malformed header"
	case ProtocolErrorInvalidContentLength:
		return "invalid content length"
	case ProtocolErrorMalformedRequestLine:
		return "malformed request line"
	default:
		return fmt.Sprintf("protocol error %d", int(e))
	}
}

// HttpError is the main error type for the downloader
type HttpError struct {
	Type          ErrorType
	TransportErr  TransportError
	ProtocolErr   ProtocolError
	Message       string
	UnderlyingErr error
}

// Error implements the error interface
func (e *HttpError) Error() string {
	if e == nil {
		return "no error"
	}

	var typeStr string
	switch e.Type {
	case ErrorTransport:
		typeStr = fmt.Sprintf("Transport error (%s)", e.TransportErr)
	case ErrorProtocol:
		typeStr = fmt.Sprintf("Protocol error (%s)", e.ProtocolErr)
	case ErrorParser:
		typeStr = "Parser error"
	case ErrorInvalidArgument:
		typeStr = "Invalid argument"
	default:
		typeStr = "Unknown error"
	}

	if e.Message != "" {
		typeStr = fmt.Sprintf("%s: %s", typeStr, e.Message)
	}

	if e.UnderlyingErr != nil {
		return fmt.Sprintf("%s (caused by: %v)", typeStr, e.UnderlyingErr)
	}

	return typeStr
}

// Unwrap returns the underlying error for error chain support
func (e *HttpError) Unwrap() error {
	return e.UnderlyingErr
}

// NewTransportError creates a new transport error
func NewTransportError(err TransportError, message string, underlying error) *HttpError {
	return &HttpError{
		Type:          ErrorTransport,
		TransportErr:  err,
		Message:       message,
		UnderlyingErr: underlying,
	}
}

// NewProtocolError creates a new protocol error
func NewProtocolError(err ProtocolError, message string) *HttpError {
	return &HttpError{
		Type:        ErrorProtocol,
		ProtocolErr: err,
		Message:     message,
	}
}

// NewParserError wraps a status line or header failure. The protocol code of
// the wrapped error is copied so callers can switch on it without unwrapping.
func NewParserError(message string, underlying error) *HttpError {
	perr := &HttpError{
		Type:          ErrorParser,
		Message:       message,
		UnderlyingErr: underlying,
	}

	var inner *HttpError
	if stderrors.As(underlying, &inner) {
		perr.ProtocolErr = inner.ProtocolErr
	}

	return perr
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string, underlying error) *HttpError {
	return &HttpError{
		Type:          ErrorInvalidArgument,
		Message:       message,
		UnderlyingErr: underlying,
	}
}

func asHttpError(err error) (*HttpError, bool) {
	var herr *HttpError
	if !stderrors.As(err, &herr) {
		return nil, false
	}
	return herr, true
}

// IsConnectionError reports whether err happened while establishing the
// connection (name resolution, socket setup, refused or reset connect).
func IsConnectionError(err error) bool {
	herr, ok := asHttpError(err)
	if !ok || herr.Type != ErrorTransport {
		return false
	}

	switch herr.TransportErr {
	case TransportErrorDnsFailure, TransportErrorSocketCreateFailure, TransportErrorSocketConnectFailure:
		return true
	}
	return false
}

// IsTransportError reports whether err is a failure during send or receive.
func IsTransportError(err error) bool {
	herr, ok := asHttpError(err)
	if !ok || herr.Type != ErrorTransport {
		return false
	}

	switch herr.TransportErr {
	case TransportErrorSocketReadFailure, TransportErrorSocketWriteFailure, TransportErrorIoUringSubmit:
		return true
	}
	return false
}

// IsConnectionClosed reports whether err is the orderly end-of-stream signal.
func IsConnectionClosed(err error) bool {
	herr, ok := asHttpError(err)
	return ok && herr.Type == ErrorTransport && herr.TransportErr == TransportErrorConnectionClosed
}

// IsParserError reports whether err came out of response or request parsing.
func IsParserError(err error) bool {
	herr, ok := asHttpError(err)
	return ok && herr.Type == ErrorParser
}

// ProtocolCode returns the protocol error code carried by err, or
// ProtocolErrorNone when err is not a protocol or parser error.
func ProtocolCode(err error) ProtocolError {
	herr, ok := asHttpError(err)
	if !ok {
		return ProtocolErrorNone
	}
	return herr.ProtocolErr
}
