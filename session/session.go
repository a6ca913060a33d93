// Package session drives the download of a single URL over its own
// connection: connect, send one GET request, read until the peer closes,
// then parse what was read and hand the body to a Persister.
package session

import (
	"bytes"
	"context"

	"github.com/dchest/uniuri"
	"github.com/nczempin/httpfetch/errors"
	"github.com/nczempin/httpfetch/protocol"
	"github.com/nczempin/httpfetch/transport"
	"go.uber.org/zap"
)

const (
	// DefaultPort is the only port downloads talk to outside of tests
	DefaultPort = 80
	// DefaultScratchSize is the size of the buffer each read lands in
	DefaultScratchSize = 1024
)

// State is the position of a Session in its lifecycle
type State int

const (
	StateConnecting State = iota
	StateSending
	StateReceiving
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateSending:
		return "sending"
	case StateReceiving:
		return "receiving"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition leaves s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Persister stores the body of a parsed response
type Persister interface {
	Persist(ctx context.Context, host string, body []byte) error
}

// Options tune a Session. Zero values select the defaults.
type Options struct {
	Port        int
	ScratchSize int
	Persister   Persister
	Logger      *zap.Logger
}

// Result is what a Session reports once it reaches a terminal state.
// For StateFailed, Err is the connect, send or receive failure. For StateDone,
// Err is set only when the response could not be parsed or persisted.
type Result struct {
	ID            string
	URL           string
	Host          string
	State         State
	BytesReceived int
	Response      *protocol.HttpResponse
	Err           error
}

// Session is the per-URL state machine. It is not safe for concurrent use:
// exactly one goroutine drives it.
type Session struct {
	ID   string
	URL  string
	Host string
	Port int

	target       protocol.Target
	newTransport transport.Factory
	conn         transport.Transport
	persister    Persister
	logger       *zap.Logger

	request  []byte
	scratch  []byte
	response bytes.Buffer
	received int

	state  State
	parsed *protocol.HttpResponse
	err    error
}

// New creates a session for rawURL in StateConnecting. Nothing touches the
// network until the first Step.
func New(rawURL string, newTransport transport.Factory, opts Options) *Session {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.ScratchSize <= 0 {
		opts.ScratchSize = DefaultScratchSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uniuri.NewLen(8)

	return &Session{
		ID:           id,
		URL:          rawURL,
		Port:         opts.Port,
		newTransport: newTransport,
		persister:    opts.Persister,
		logger:       opts.Logger.With(zap.String("session", id), zap.String("url", rawURL)),
		scratch:      make([]byte, opts.ScratchSize),
		state:        StateConnecting,
	}
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// BytesReceived returns how many response bytes have been accumulated
func (s *Session) BytesReceived() int {
	return s.received
}

// Step performs exactly one transition and returns the new state. ctx is only
// handed to the Persister. Step on a terminal session does nothing.
func (s *Session) Step(ctx context.Context) State {
	switch s.state {
	case StateConnecting:
		s.connect()
	case StateSending:
		s.send()
	case StateReceiving:
		s.receive(ctx)
	}
	return s.state
}

// Run drives the session to a terminal state. The connection has been
// released by the time Run returns.
func (s *Session) Run(ctx context.Context) Result {
	for !s.state.Terminal() {
		s.Step(ctx)
	}
	return s.Result()
}

// Result snapshots the session outcome
func (s *Session) Result() Result {
	return Result{
		ID:            s.ID,
		URL:           s.URL,
		Host:          s.Host,
		State:         s.state,
		BytesReceived: s.received,
		Response:      s.parsed,
		Err:           s.err,
	}
}

func (s *Session) connect() {
	target, err := protocol.ParseTarget(s.URL)
	if err != nil {
		s.fail("Error parsing url", err)
		return
	}
	s.target = target
	s.Host = target.Host

	conn, err := s.newTransport()
	if err != nil {
		s.fail("Error creating transport", err)
		return
	}
	s.conn = conn

	if err := conn.Connect(s.Host, s.Port); err != nil {
		s.fail("Error during connection", err)
		return
	}

	s.state = StateSending
}

func (s *Session) send() {
	s.request = protocol.BuildRequest(s.target)

	n, err := s.conn.Write(s.request)
	if err != nil {
		s.fail("Error during sending", err)
		return
	}
	s.logger.Info("sent request", zap.String("host", s.Host), zap.Int("bytes", n))

	s.state = StateReceiving
}

func (s *Session) receive(ctx context.Context) {
	n, err := s.conn.Read(s.scratch)
	if err != nil {
		if errors.IsConnectionClosed(err) {
			s.complete(ctx)
			return
		}
		s.fail("Error during receiving", err)
		return
	}

	s.response.Write(s.scratch[:n])
	s.received += n
}

// complete is entered once the peer closed the connection
func (s *Session) complete(ctx context.Context) {
	s.release()
	s.state = StateDone
	s.logger.Info("download complete", zap.Int("bytes", s.received))

	resp, err := protocol.ParseResponseUnsafe(s.response.Bytes())
	if err != nil {
		s.err = err
		s.logger.Warn("could not parse the raw response", zap.Error(err))
		return
	}
	s.parsed = resp

	if s.persister == nil {
		return
	}

	if err := s.persister.Persist(ctx, s.Host, []byte(resp.Body)); err != nil {
		s.err = err
		s.logger.Error("could not save response", zap.String("host", s.Host), zap.Error(err))
		return
	}
	s.logger.Debug("response saved", zap.String("host", s.Host))
}

func (s *Session) fail(msg string, err error) {
	s.release()
	s.err = err
	s.state = StateFailed
	s.logger.Error(msg, zap.Error(err))
}

func (s *Session) release() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		s.logger.Debug("close failed", zap.Error(err))
	}
	s.conn = nil
}
