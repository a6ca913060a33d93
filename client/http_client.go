// Package client performs a single blocking GET on top of one download session.
package client

import (
	"context"

	"github.com/nczempin/httpfetch/errors"
	"github.com/nczempin/httpfetch/protocol"
	"github.com/nczempin/httpfetch/session"
	"github.com/nczempin/httpfetch/transport"
	"go.uber.org/zap"
)

// HttpClient provides a high-level HTTP client API
type HttpClient struct {
	newTransport transport.Factory
	port         int
	logger       *zap.Logger
}

// NewHttpClient creates a new HTTP client whose connections come from
// newTransport. A zero port selects session.DefaultPort.
func NewHttpClient(newTransport transport.Factory, port int, logger *zap.Logger) *HttpClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HttpClient{
		newTransport: newTransport,
		port:         port,
		logger:       logger,
	}
}

// Get downloads rawURL and returns the parsed response. The connection is
// opened for this request only and is closed before Get returns.
func (c *HttpClient) Get(rawURL string) (*protocol.HttpResponse, error) {
	res := c.Fetch(rawURL)
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Response == nil {
		return nil, errors.NewParserError("no response received", nil)
	}
	return res.Response, nil
}

// Fetch is like Get but reports the full session outcome
func (c *HttpClient) Fetch(rawURL string) session.Result {
	s := session.New(rawURL, c.newTransport, session.Options{
		Port:   c.port,
		Logger: c.logger,
	})
	return s.Run(context.Background())
}
