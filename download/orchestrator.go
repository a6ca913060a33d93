// Package download runs one session per URL, all at once, and waits for them
// according to a completion Policy.
package download

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nczempin/httpfetch/session"
	"github.com/nczempin/httpfetch/transport"
)

// Options configure an Orchestrator
type Options struct {
	Policy      Policy
	Port        int
	ScratchSize int
	Persister   session.Persister
	Logger      *zap.Logger
}

// Orchestrator starts sessions and applies the completion policy
type Orchestrator struct {
	newTransport transport.Factory
	opts         Options
	logger       *zap.Logger
}

// New creates an Orchestrator whose sessions get their transports from newTransport
func New(newTransport transport.Factory, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		newTransport: newTransport,
		opts:         opts,
		logger:       logger,
	}
}

// Download starts a session for every URL immediately. Under Barrier and
// JoinAll it returns once every session is terminal, with one Result per URL
// in input order. Under NoWait it returns nil straight away.
//
// ctx is handed to the Persister only; sessions cannot be cancelled.
func (o *Orchestrator) Download(ctx context.Context, urls []string) []Result {
	sessions := make([]*session.Session, len(urls))
	for i, url := range urls {
		sessions[i] = session.New(url, o.newTransport, session.Options{
			Port:        o.opts.Port,
			ScratchSize: o.opts.ScratchSize,
			Persister:   o.opts.Persister,
			Logger:      o.logger,
		})
	}

	o.logger.Info("starting downloads", zap.Int("count", len(urls)), zap.Stringer("policy", o.opts.Policy))
	start := time.Now()

	var results []Result
	switch o.opts.Policy {
	case Barrier:
		results = o.runBarrier(ctx, sessions)
	case JoinAll:
		results = o.runJoinAll(ctx, sessions)
	default:
		o.runNoWait(ctx, sessions)
		return nil
	}

	o.logger.Info("downloads finished", zap.Int("count", len(results)), zap.Duration("elapsed", time.Since(start)))
	return results
}

func (o *Orchestrator) runNoWait(ctx context.Context, sessions []*session.Session) {
	for _, s := range sessions {
		go s.Run(ctx)
	}
}

func (o *Orchestrator) runBarrier(ctx context.Context, sessions []*session.Session) []Result {
	results := make([]Result, len(sessions))
	if len(sessions) == 0 {
		return results
	}

	var remaining atomic.Int64
	remaining.Store(int64(len(sessions)))
	done := make(chan struct{})

	for i, s := range sessions {
		go func(i int, s *session.Session) {
			results[i] = s.Run(ctx)
			if remaining.Add(-1) == 0 {
				close(done)
			}
		}(i, s)
	}

	<-done
	return results
}

func (o *Orchestrator) runJoinAll(ctx context.Context, sessions []*session.Session) []Result {
	results := make([]Result, len(sessions))

	var g errgroup.Group
	for i, s := range sessions {
		i, s := i, s
		g.Go(func() error {
			results[i] = s.Run(ctx)
			if results[i].State == session.StateFailed {
				return results[i].Err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Debug("at least one session failed", zap.NamedError("first_error", err))
	}
	return results
}
